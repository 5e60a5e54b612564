package service

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/util"
	"time"
)

const (
	// HeatmapGridWeeks 展示网格固定为53列（周）
	HeatmapGridWeeks = 53
	// HeatmapHorizonDays 热力图覆盖的回溯天数
	HeatmapHorizonDays = 365
)

// DayCell 网格中的一天
// swagger:model DayCell
type DayCell struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	IsFuture bool   `json:"isFuture"`
}

// HeatmapWeek 一列（周日起始的7天）。MonthStart 标记该周开启了新的月份，
// 仅用于渲染月份标签。
// swagger:model HeatmapWeek
type HeatmapWeek struct {
	Days       []DayCell `json:"days"`
	MonthStart bool      `json:"monthStart"`
	MonthLabel string    `json:"monthLabel,omitempty"`
}

// RenderHeatmapGrid 把稀疏的日期→次数映射铺成 53x7 的固定网格。
// 起点取 today-365 再回退到其之前（含当天）最近的周日，保证首列对齐周界；
// 之后连续枚举 53*7 天。today 之后的日期（严格大于）标记为未来。
// 同一 (heatmap, today) 输入总是产出同一网格。
func RenderHeatmapGrid(heatmap model.Heatmap, today time.Time) []HeatmapWeek {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	start := day.AddDate(0, 0, -HeatmapHorizonDays)
	start = start.AddDate(0, 0, -int(start.Weekday()))

	weeks := make([]HeatmapWeek, 0, HeatmapGridWeeks)
	cursor := start
	var prevMonth time.Month

	for w := 0; w < HeatmapGridWeeks; w++ {
		first := cursor
		week := HeatmapWeek{Days: make([]DayCell, 0, 7)}

		for d := 0; d < 7; d++ {
			date := cursor.Format(util.DateFormat)
			week.Days = append(week.Days, DayCell{
				Date:     date,
				Count:    heatmap[date],
				IsFuture: cursor.After(day),
			})
			cursor = cursor.AddDate(0, 0, 1)
		}

		if w == 0 || first.Month() != prevMonth {
			week.MonthStart = true
			week.MonthLabel = first.Format("Jan")
		}
		prevMonth = first.Month()

		weeks = append(weeks, week)
	}

	return weeks
}

// todayUTC 服务端统一用UTC日界，不做按学习者时区的切分
func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
