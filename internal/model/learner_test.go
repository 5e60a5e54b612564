package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusPtr(s ProgressStatus) *ProgressStatus { return &s }
func tierPtr(t SkillTier) *SkillTier             { return &t }
func intPtr(i int) *int                          { return &i }

func TestProgressMap_Upsert_CreatesWithDefaults(t *testing.T) {
	m := ProgressMap{}

	rec := m.Upsert("go-basics", nil, nil, nil)

	assert.Equal(t, StatusActive, rec.Status)
	assert.Equal(t, TierBeginner, rec.CurrentSkillTier)
	assert.Empty(t, rec.QuizScores)
	assert.Len(t, m, 1)
}

func TestProgressMap_Upsert_CreateWithGivenFields(t *testing.T) {
	m := ProgressMap{}

	rec := m.Upsert("go-basics", statusPtr(StatusLocked), tierPtr(TierExpert), intPtr(90))

	assert.Equal(t, StatusLocked, rec.Status)
	assert.Equal(t, TierExpert, rec.CurrentSkillTier)
	assert.Equal(t, []int{90}, rec.QuizScores)
}

func TestProgressMap_Upsert_PartialUpdate(t *testing.T) {
	m := ProgressMap{}
	m.Upsert("go-basics", statusPtr(StatusMastered), nil, intPtr(95))

	// 只给分数：状态与档位保持不变，分数追加
	rec := m.Upsert("go-basics", nil, nil, intPtr(88))

	assert.Equal(t, StatusMastered, rec.Status)
	assert.Equal(t, TierBeginner, rec.CurrentSkillTier)
	assert.Equal(t, []int{95, 88}, rec.QuizScores)
}

func TestProgressMap_Upsert_SingleRecordPerTopic(t *testing.T) {
	m := ProgressMap{}

	for i := 0; i < 10; i++ {
		m.Upsert("go-basics", nil, nil, intPtr(i))
	}

	require.Len(t, m, 1)
	assert.Len(t, m["go-basics"].QuizScores, 10)
	// 追加顺序即时间顺序
	for i, score := range m["go-basics"].QuizScores {
		assert.Equal(t, i, score)
	}
}

func TestGamification_Level_DerivedFromXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{130, 2},
		{199, 2},
		{200, 3},
		{1000, 11},
	}

	for _, tt := range tests {
		g := Gamification{XP: tt.xp}
		assert.Equal(t, tt.level, g.Level(), "xp=%d", tt.xp)
	}
}

func TestGamification_ApplyXP(t *testing.T) {
	g := Gamification{XP: 80}

	require.NoError(t, g.ApplyXP(50))
	assert.Equal(t, 130, g.XP)
	assert.Equal(t, 2, g.Level())
	assert.Equal(t, 200, g.NextLevelXP())
}

func TestGamification_ApplyXP_NegativeDeltaRejected(t *testing.T) {
	g := Gamification{XP: 80}

	err := g.ApplyXP(-10)

	require.ErrorIs(t, err, ErrInvalidXPDelta)
	assert.Equal(t, 80, g.XP)
	assert.Equal(t, 1, g.Level())
}

func TestGamification_GrantBadge_AllowsDuplicates(t *testing.T) {
	g := Gamification{}

	g.GrantBadge("early-bird")
	g.GrantBadge("early-bird")

	assert.Equal(t, []string{"early-bird", "early-bird"}, g.Badges)
}

func TestHeatmap_Record_SameDateIncrements(t *testing.T) {
	h := Heatmap{}

	h.Record("2026-09-01")
	h.Record("2026-09-01")

	require.Len(t, h, 1)
	assert.Equal(t, 2, h["2026-09-01"])
}

func TestHeatmap_Record_DistinctDates(t *testing.T) {
	h := Heatmap{}

	for i := 0; i < 100; i++ {
		h.Record(fmt.Sprintf("2026-%02d-%02d", i/28+1, i%28+1))
	}

	assert.Len(t, h, 100)
	for _, count := range h {
		assert.Equal(t, 1, count)
	}
}

func TestNewLearner_EmptyAggregates(t *testing.T) {
	l := NewLearner("Ada", "ada@example.com")

	assert.Equal(t, "Ada", l.Profile.Name)
	assert.Equal(t, "ada@example.com", l.Profile.Email)
	assert.NotNil(t, l.Progress)
	assert.NotNil(t, l.Gamification.Heatmap)
	assert.Equal(t, int64(1), l.Version)
	assert.Equal(t, 1, l.Gamification.Level())
}
