package service

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// GamificationView 对外暴露的游戏化状态，等级与升级阈值均为派生值
// swagger:model GamificationView
type GamificationView struct {
	XP          int           `json:"xp"`
	Level       int           `json:"level"`
	NextLevelXP int           `json:"nextLevelXp"`
	Streak      int           `json:"streak"`
	Badges      []string      `json:"badges"`
	Heatmap     model.Heatmap `json:"heatmap"`
}

func NewGamificationView(g *model.Gamification) GamificationView {
	badges := g.Badges
	if badges == nil {
		badges = []string{}
	}
	heatmap := g.Heatmap
	if heatmap == nil {
		heatmap = model.Heatmap{}
	}
	return GamificationView{
		XP:          g.XP,
		Level:       g.Level(),
		NextLevelXP: g.NextLevelXP(),
		Streak:      g.Streak,
		Badges:      badges,
		Heatmap:     heatmap,
	}
}

// LearnerView 学习者聚合的响应形态
// swagger:model LearnerView
type LearnerView struct {
	ID           string            `json:"id"`
	Profile      model.Profile     `json:"profile"`
	Gamification GamificationView  `json:"gamification"`
	Progress     model.ProgressMap `json:"progress"`
}

func NewLearnerView(l *model.Learner) LearnerView {
	progress := l.Progress
	if progress == nil {
		progress = model.ProgressMap{}
	}
	return LearnerView{
		ID:           l.ID,
		Profile:      l.Profile,
		Gamification: NewGamificationView(&l.Gamification),
		Progress:     progress,
	}
}

// LeaderboardEntry 排行榜条目
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	XP    int    `json:"xp"`
	Level int    `json:"level"`
}

// RegisterRequest 创建学习者账号
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Bio         string `json:"bio"`
	Affiliation string `json:"affiliation"`
}

// LearnerService 账号创建与读取。聚合一经创建，后续的全部变更
// 都走 ProgressService 的更新路径。
type LearnerService struct {
	Learners repository.LearnerStore
}

func NewLearnerService(learners repository.LearnerStore) *LearnerService {
	return &LearnerService{Learners: learners}
}

func (s *LearnerService) Register(req RegisterRequest) (*model.Learner, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	learner := model.NewLearner(req.Name, req.Email)
	learner.Profile.Bio = req.Bio
	learner.Profile.Affiliation = req.Affiliation
	learner.Password = string(hashedPassword)

	if err := s.Learners.Create(learner); err != nil {
		return nil, err
	}
	return learner, nil
}

func (s *LearnerService) GetLearner(id string) (*model.Learner, error) {
	return s.Learners.Load(id)
}

func (s *LearnerService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	learners, err := s.Learners.ListTopByXP(limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(learners))
	for i, l := range learners {
		leaderboard[i] = LeaderboardEntry{
			Rank:  i + 1,
			Name:  l.Profile.Name,
			XP:    l.Gamification.XP,
			Level: l.Gamification.Level(),
		}
	}
	return leaderboard, nil
}
