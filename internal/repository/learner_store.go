package repository

import "devpath_backend/internal/model"

// LearnerStore 进度引擎依赖的持久化能力。引擎对具体后端一无所知，
// 选择哪个实现由应用装配层决定。
//
// Save 采用乐观并发：按 Learner.Version 条件写入，版本不匹配返回
// util.ErrVersionConflict，由调用方决定是否重试。接口实现自身不重试。
type LearnerStore interface {
	// Create 持久化新的学习者聚合。邮箱重复返回 util.ErrEmailRegistered。
	Create(learner *model.Learner) error

	// Load 按ID装载完整聚合。不存在返回 util.ErrLearnerNotFound。
	Load(id string) (*model.Learner, error)

	// Save 写回整个聚合。成功时递增 learner.Version。
	Save(learner *model.Learner) error

	// ListTopByXP 按XP降序返回前 limit 个学习者（排行榜）。
	ListTopByXP(limit int) ([]model.Learner, error)
}
