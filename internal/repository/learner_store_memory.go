package repository

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/util"
	"sort"
	"sync"
	"time"
)

// MemoryLearnerStore 进程内降级后端。语义与GORM实现一致：
// Load 返回深拷贝，Save 做版本比较，避免调用方与存储共享可变状态。
// 实例由应用装配层显式构造并注入，生命周期与进程一致。
type MemoryLearnerStore struct {
	mu       sync.RWMutex
	learners map[string]*model.Learner
	byEmail  map[string]string
}

func NewMemoryLearnerStore() *MemoryLearnerStore {
	return &MemoryLearnerStore{
		learners: make(map[string]*model.Learner),
		byEmail:  make(map[string]string),
	}
}

func (s *MemoryLearnerStore) Create(learner *model.Learner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[learner.Profile.Email]; exists {
		return util.ErrEmailRegistered
	}

	if learner.ID == "" {
		learner.ID = model.GenerateUUID()
	}
	now := time.Now()
	if learner.CreatedAt.IsZero() {
		learner.CreatedAt = now
	}
	learner.UpdatedAt = now
	if learner.Version == 0 {
		learner.Version = 1
	}

	s.learners[learner.ID] = cloneLearner(learner)
	s.byEmail[learner.Profile.Email] = learner.ID
	return nil
}

func (s *MemoryLearnerStore) Load(id string) (*model.Learner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.learners[id]
	if !ok {
		return nil, util.ErrLearnerNotFound
	}
	return cloneLearner(stored), nil
}

func (s *MemoryLearnerStore) Save(learner *model.Learner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.learners[learner.ID]
	if !ok {
		return util.ErrLearnerNotFound
	}
	if stored.Version != learner.Version {
		return util.ErrVersionConflict
	}

	learner.Version++
	learner.UpdatedAt = time.Now()
	s.learners[learner.ID] = cloneLearner(learner)
	return nil
}

func (s *MemoryLearnerStore) ListTopByXP(limit int) ([]model.Learner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Learner, 0, len(s.learners))
	for _, l := range s.learners {
		all = append(all, *cloneLearner(l))
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Gamification.XP != all[j].Gamification.XP {
			return all[i].Gamification.XP > all[j].Gamification.XP
		}
		return all[i].ID < all[j].ID
	})

	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func cloneLearner(src *model.Learner) *model.Learner {
	dst := *src

	dst.Gamification.Badges = append([]string(nil), src.Gamification.Badges...)
	dst.Gamification.Heatmap = make(model.Heatmap, len(src.Gamification.Heatmap))
	for date, count := range src.Gamification.Heatmap {
		dst.Gamification.Heatmap[date] = count
	}

	dst.Progress = make(model.ProgressMap, len(src.Progress))
	for topicID, rec := range src.Progress {
		rec.QuizScores = append([]int(nil), rec.QuizScores...)
		dst.Progress[topicID] = rec
	}

	return &dst
}
