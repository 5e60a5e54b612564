package repository

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// GormLearnerStore MySQL后端：一个学习者一行，游戏化与进度为JSON文档列
type GormLearnerStore struct {
	DB *gorm.DB
}

func NewGormLearnerStore(db *gorm.DB) *GormLearnerStore {
	return &GormLearnerStore{DB: db}
}

func (s *GormLearnerStore) Create(learner *model.Learner) error {
	var count int64
	if err := s.DB.Model(&model.Learner{}).Where("email = ?", learner.Profile.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return util.ErrEmailRegistered
	}

	now := time.Now()
	if learner.CreatedAt.IsZero() {
		learner.CreatedAt = now
	}
	learner.UpdatedAt = now
	if learner.Version == 0 {
		learner.Version = 1
	}

	return s.DB.Create(learner).Error
}

func (s *GormLearnerStore) Load(id string) (*model.Learner, error) {
	var learner model.Learner
	err := s.DB.Where("id = ?", id).First(&learner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLearnerNotFound
		}
		return nil, err
	}
	return &learner, nil
}

// Save 条件更新：WHERE version = 装载时的版本。影响0行说明聚合在
// load 之后被其他请求改写，返回冲突，调用方持新版本重试。
func (s *GormLearnerStore) Save(learner *model.Learner) error {
	prev := learner.Version
	learner.Version = prev + 1
	learner.UpdatedAt = time.Now()

	res := s.DB.Model(&model.Learner{}).
		Where("id = ? AND version = ?", learner.ID, prev).
		Select("name", "email", "bio", "affiliation", "password", "gamification", "progress", "version", "updated_at").
		Updates(learner)

	if res.Error != nil {
		learner.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		learner.Version = prev
		return util.ErrVersionConflict
	}
	return nil
}

func (s *GormLearnerStore) ListTopByXP(limit int) ([]model.Learner, error) {
	var learners []model.Learner
	err := s.DB.Model(&model.Learner{}).
		Order("CAST(JSON_EXTRACT(gamification, '$.xp') AS SIGNED) DESC").
		Limit(limit).
		Find(&learners).Error
	return learners, err
}
