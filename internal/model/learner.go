package model

import "errors"

// XPPerLevel 每升一级所需的经验值。等级始终由XP推导，从不单独存储。
const XPPerLevel = 100

// ErrInvalidXPDelta 本系统不定义扣除经验值的语义
var ErrInvalidXPDelta = errors.New("xp delta must be non-negative")

type ProgressStatus string

const (
	StatusLocked   ProgressStatus = "locked"
	StatusActive   ProgressStatus = "active"
	StatusMastered ProgressStatus = "mastered"
)

func (s ProgressStatus) IsValid() bool {
	switch s {
	case StatusLocked, StatusActive, StatusMastered:
		return true
	default:
		return false
	}
}

type SkillTier string

const (
	TierBeginner     SkillTier = "beginner"
	TierIntermediate SkillTier = "intermediate"
	TierExpert       SkillTier = "expert"
)

func (t SkillTier) IsValid() bool {
	switch t {
	case TierBeginner, TierIntermediate, TierExpert:
		return true
	default:
		return false
	}
}

// ProgressRecord 学习者在单个主题上的掌握状态
// swagger:model ProgressRecord
type ProgressRecord struct {
	Status           ProgressStatus `json:"status"`
	CurrentSkillTier SkillTier      `json:"currentSkillTier"`
	QuizScores       []int          `json:"quizScores"` // 只追加，按时间顺序
}

// ProgressMap 主题ID到进度记录的映射，每个主题至多一条记录
type ProgressMap map[string]ProgressRecord

// Upsert 应用进度台账的更新规则：记录不存在则按默认值创建，
// 存在则只替换调用方给出的字段；score 追加到 QuizScores。
// 不校验主题是否存在于内容目录——未知ID只会产生一条孤儿记录。
func (m ProgressMap) Upsert(topicID string, status *ProgressStatus, tier *SkillTier, score *int) ProgressRecord {
	rec, ok := m[topicID]
	if !ok {
		rec = ProgressRecord{
			Status:           StatusActive,
			CurrentSkillTier: TierBeginner,
			QuizScores:       []int{},
		}
	}

	if status != nil {
		rec.Status = *status
	}
	if tier != nil {
		rec.CurrentSkillTier = *tier
	}
	if score != nil {
		rec.QuizScores = append(rec.QuizScores, *score)
	}

	m[topicID] = rec
	return rec
}

// Heatmap 日期(YYYY-MM-DD)到活跃次数的稀疏映射，每个日期至多一个条目
type Heatmap map[string]int

// Record 已有条目则计数+1，否则以1插入。这是热力图唯一的写入口。
func (h Heatmap) Record(date string) {
	h[date]++
}

// Gamification 学习者的经验/等级/连续打卡/徽章/活跃热力图
// swagger:model Gamification
type Gamification struct {
	XP          int      `json:"xp"`
	Streak      int      `json:"streak"`
	LastCheckin string   `json:"lastCheckin,omitempty"` // 最近一次打卡日期 YYYY-MM-DD
	Badges      []string `json:"badges"`
	Heatmap     Heatmap  `json:"heatmap"`
}

// Level 由XP实时推导：floor(xp/100) + 1
func (g *Gamification) Level() int {
	return g.XP/XPPerLevel + 1
}

// NextLevelXP 升到下一级所需的XP总量
func (g *Gamification) NextLevelXP() int {
	return g.Level() * XPPerLevel
}

// ApplyXP 累加经验值增量。负增量返回 ErrInvalidXPDelta 且不改变任何状态。
func (g *Gamification) ApplyXP(delta int) error {
	if delta < 0 {
		return ErrInvalidXPDelta
	}
	g.XP += delta
	return nil
}

// GrantBadge 按名称追加徽章。允许重名——这是有意保留的行为，不去重。
func (g *Gamification) GrantBadge(name string) {
	g.Badges = append(g.Badges, name)
}

// RecordActivity 在指定日期记一次活跃
func (g *Gamification) RecordActivity(date string) {
	if g.Heatmap == nil {
		g.Heatmap = Heatmap{}
	}
	g.Heatmap.Record(date)
}

// Profile 学习者的基本资料
// swagger:model Profile
type Profile struct {
	Name        string `gorm:"size:100;not null" json:"name"`
	Email       string `gorm:"size:100;unique;not null" json:"email"`
	Bio         string `gorm:"size:500" json:"bio,omitempty"`
	Affiliation string `gorm:"size:200" json:"affiliation,omitempty"`
}

// Learner 账号级聚合：资料 + 游戏化状态 + 按主题的学习进度。
// 游戏化与进度两块以JSON文档列整体存储，一个学习者一行。
// swagger:model Learner
type Learner struct {
	UUIDBase
	Profile      Profile      `gorm:"embedded" json:"profile"`
	Password     string       `gorm:"size:100" json:"-"`
	Gamification Gamification `gorm:"serializer:json;type:json" json:"gamification"`
	Progress     ProgressMap  `gorm:"serializer:json;type:json" json:"progress"`

	// Version 乐观并发控制。Save 按版本条件更新，冲突时由调用方重试。
	Version int64 `gorm:"not null;default:1" json:"-"`
}

func (Learner) TableName() string {
	return "learners"
}

// NewLearner 创建空白的学习者聚合
func NewLearner(name, email string) *Learner {
	return &Learner{
		Profile: Profile{Name: name, Email: email},
		Gamification: Gamification{
			Badges:  []string{},
			Heatmap: Heatmap{},
		},
		Progress: ProgressMap{},
		Version:  1,
	}
}
