package service

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/repository"
	"devpath_backend/internal/util"
	"devpath_backend/pkg/logger"

	"go.uber.org/zap"
)

// ProgressUpdateRequest 一次学习事件携带的增量。除 TopicID 外均为可选，
// 缺省字段不参与更新（部分更新语义）。
// swagger:model ProgressUpdateRequest
type ProgressUpdateRequest struct {
	TopicID          string                `json:"topicId" binding:"required"`
	Status           *model.ProgressStatus `json:"status" binding:"omitempty,oneof=locked active mastered"`
	CurrentSkillTier *model.SkillTier      `json:"currentSkillTier" binding:"omitempty,oneof=beginner intermediate expert"`
	QuizScore        *int                  `json:"quizScore"`
	XPGain           *int                  `json:"xpGain"`
}

// DashboardView 仪表盘读取路径的输出：派生等级的游戏化视图、
// 进度映射和渲染好的活跃网格
// swagger:model DashboardView
type DashboardView struct {
	Gamification GamificationView  `json:"gamification"`
	Progress     model.ProgressMap `json:"progress"`
	Heatmap      []HeatmapWeek     `json:"heatmap"`
}

// ProgressService 进度与游戏化引擎的唯一入口。
// 每次调用是一个 load→mutate→save 的整体：任何一步失败都在持久化之前
// 中止，内存中的变更随之丢弃，对外可见的仍是更新前的聚合。
// 并发写同一学习者依靠存储层的版本检查暴露为冲突，这里不做重试。
type ProgressService struct {
	Learners repository.LearnerStore
}

func NewProgressService(learners repository.LearnerStore) *ProgressService {
	return &ProgressService{Learners: learners}
}

// ApplyUpdate 应用一次进度更新并返回更新后的聚合
func (s *ProgressService) ApplyUpdate(learnerID string, req ProgressUpdateRequest) (*model.Learner, error) {
	learner, err := s.Learners.Load(learnerID)
	if err != nil {
		return nil, err
	}

	if learner.Progress == nil {
		learner.Progress = model.ProgressMap{}
	}
	learner.Progress.Upsert(req.TopicID, req.Status, req.CurrentSkillTier, req.QuizScore)

	if req.XPGain != nil {
		if err := learner.Gamification.ApplyXP(*req.XPGain); err != nil {
			// 负增量在落盘之前拒绝，聚合保持原样
			return nil, err
		}
	}

	learner.Gamification.RecordActivity(todayUTC().Format(util.DateFormat))

	if err := s.Learners.Save(learner); err != nil {
		if err == util.ErrVersionConflict {
			logger.Log.Info("progress update conflict",
				zap.String("learner", learnerID),
				zap.String("topic", req.TopicID))
		}
		return nil, err
	}

	return learner, nil
}

// ReadForDisplay 仪表盘读取。只渲染，绝不记录活跃。
func (s *ProgressService) ReadForDisplay(learnerID string) (*DashboardView, error) {
	learner, err := s.Learners.Load(learnerID)
	if err != nil {
		return nil, err
	}

	progress := learner.Progress
	if progress == nil {
		progress = model.ProgressMap{}
	}

	return &DashboardView{
		Gamification: NewGamificationView(&learner.Gamification),
		Progress:     progress,
		Heatmap:      RenderHeatmapGrid(learner.Gamification.Heatmap, todayUTC()),
	}, nil
}

// Checkin 每日打卡：当天已打卡则幂等返回；昨天打过则连击+1，否则重置为1。
// 打卡同时在热力图上记一次活跃。
func (s *ProgressService) Checkin(learnerID string) (*model.Learner, error) {
	learner, err := s.Learners.Load(learnerID)
	if err != nil {
		return nil, err
	}

	today := todayUTC()
	todayKey := today.Format(util.DateFormat)

	g := &learner.Gamification
	if g.LastCheckin == todayKey {
		return learner, nil
	}

	if g.LastCheckin == today.AddDate(0, 0, -1).Format(util.DateFormat) {
		g.Streak++
	} else {
		g.Streak = 1
	}
	g.LastCheckin = todayKey
	g.RecordActivity(todayKey)

	if err := s.Learners.Save(learner); err != nil {
		return nil, err
	}
	return learner, nil
}

// GrantBadge 按名称授予徽章。重复授予产生重复条目，这是既有约定。
func (s *ProgressService) GrantBadge(learnerID, name string) (*model.Learner, error) {
	learner, err := s.Learners.Load(learnerID)
	if err != nil {
		return nil, err
	}

	learner.Gamification.GrantBadge(name)

	if err := s.Learners.Save(learner); err != nil {
		return nil, err
	}
	return learner, nil
}
