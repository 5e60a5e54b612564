package service

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeatmapGrid_Dimensions(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	grid := RenderHeatmapGrid(model.Heatmap{}, today)

	require.Len(t, grid, HeatmapGridWeeks)
	for _, week := range grid {
		assert.Len(t, week.Days, 7)
	}
}

func TestRenderHeatmapGrid_StartsOnSunday(t *testing.T) {
	// 不同的today都必须从周日开始
	for _, today := range []time.Time{
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),  // 周二
		time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),  // 周日
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	} {
		grid := RenderHeatmapGrid(model.Heatmap{}, today)

		first, err := time.Parse(util.DateFormat, grid[0].Days[0].Date)
		require.NoError(t, err)
		assert.Equal(t, time.Sunday, first.Weekday(), "today=%s", today)
	}
}

func TestRenderHeatmapGrid_FutureStrictlyAfterToday(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	todayKey := today.Format(util.DateFormat)

	grid := RenderHeatmapGrid(model.Heatmap{}, today)

	for _, week := range grid {
		for _, cell := range week.Days {
			d, err := time.Parse(util.DateFormat, cell.Date)
			require.NoError(t, err)
			if cell.Date == todayKey {
				assert.False(t, cell.IsFuture, "today itself is never future")
			} else if d.Before(today) {
				assert.False(t, cell.IsFuture, "past cell %s marked future", cell.Date)
			} else {
				assert.True(t, cell.IsFuture, "cell %s after today not marked future", cell.Date)
			}
		}
	}
}

func TestRenderHeatmapGrid_CountsMapped(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	heatmap := model.Heatmap{
		"2026-09-01": 3,
		"2026-08-15": 1,
		"1999-01-01": 7, // 窗口之外，不应出现
	}

	grid := RenderHeatmapGrid(heatmap, today)

	found := map[string]int{}
	for _, week := range grid {
		for _, cell := range week.Days {
			if cell.Count > 0 {
				found[cell.Date] = cell.Count
			}
		}
	}

	assert.Equal(t, map[string]int{"2026-09-01": 3, "2026-08-15": 1}, found)
}

func TestRenderHeatmapGrid_Deterministic(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	heatmap := model.Heatmap{"2026-08-30": 2}

	first := RenderHeatmapGrid(heatmap, today)
	second := RenderHeatmapGrid(heatmap, today)

	assert.Equal(t, first, second)
}

func TestRenderHeatmapGrid_ConsecutiveDates(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	grid := RenderHeatmapGrid(model.Heatmap{}, today)

	prev, err := time.Parse(util.DateFormat, grid[0].Days[0].Date)
	require.NoError(t, err)
	for w, week := range grid {
		for d, cell := range week.Days {
			if w == 0 && d == 0 {
				continue
			}
			cur, err := time.Parse(util.DateFormat, cell.Date)
			require.NoError(t, err)
			assert.Equal(t, prev.AddDate(0, 0, 1), cur)
			prev = cur
		}
	}
}

func TestRenderHeatmapGrid_MonthStarts(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	grid := RenderHeatmapGrid(model.Heatmap{}, today)

	assert.True(t, grid[0].MonthStart, "first week always starts a label")
	assert.NotEmpty(t, grid[0].MonthLabel)

	for w := 1; w < len(grid); w++ {
		prevFirst, _ := time.Parse(util.DateFormat, grid[w-1].Days[0].Date)
		curFirst, _ := time.Parse(util.DateFormat, grid[w].Days[0].Date)
		expected := prevFirst.Month() != curFirst.Month()
		assert.Equal(t, expected, grid[w].MonthStart, "week %d", w)
	}
}
