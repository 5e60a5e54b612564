package service

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/repository"
	"devpath_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devpath_backend/pkg/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestLearner(t *testing.T, store repository.LearnerStore) *model.Learner {
	t.Helper()
	learner := model.NewLearner("测试学员", "progress@example.com")
	require.NoError(t, store.Create(learner))
	return learner
}

func statusP(s model.ProgressStatus) *model.ProgressStatus { return &s }
func tierP(s model.SkillTier) *model.SkillTier             { return &s }
func intP(v int) *int                                      { return &v }

func TestApplyUpdate_AccumulatesXPAndScores(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	_, err := svc.ApplyUpdate(learner.ID, ProgressUpdateRequest{
		TopicID: "t1",
		XPGain:  intP(80),
	})
	require.NoError(t, err)

	updated, err := svc.ApplyUpdate(learner.ID, ProgressUpdateRequest{
		TopicID:   "t1",
		Status:    statusP(model.StatusMastered),
		QuizScore: intP(95),
		XPGain:    intP(50),
	})
	require.NoError(t, err)

	assert.Equal(t, 130, updated.Gamification.XP)
	assert.Equal(t, 2, updated.Gamification.Level())

	rec := updated.Progress["t1"]
	assert.Equal(t, model.StatusMastered, rec.Status)
	assert.Equal(t, []int{95}, rec.QuizScores)

	// 落盘后的状态与返回值一致
	persisted, err := store.Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 130, persisted.Gamification.XP)
}

func TestApplyUpdate_PartialUpdatePreservesFields(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	_, err := svc.ApplyUpdate(learner.ID, ProgressUpdateRequest{
		TopicID:          "t1",
		Status:           statusP(model.StatusMastered),
		CurrentSkillTier: tierP(model.TierIntermediate),
		QuizScore:        intP(95),
	})
	require.NoError(t, err)

	updated, err := svc.ApplyUpdate(learner.ID, ProgressUpdateRequest{
		TopicID:   "t1",
		QuizScore: intP(88),
	})
	require.NoError(t, err)

	rec := updated.Progress["t1"]
	assert.Equal(t, model.StatusMastered, rec.Status)
	assert.Equal(t, model.TierIntermediate, rec.CurrentSkillTier)
	assert.Equal(t, []int{95, 88}, rec.QuizScores)
	assert.Len(t, updated.Progress, 1)
}

func TestApplyUpdate_NegativeXPRejectedWithoutSideEffects(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	_, err := svc.ApplyUpdate(learner.ID, ProgressUpdateRequest{
		TopicID: "t1",
		XPGain:  intP(40),
	})
	require.NoError(t, err)

	_, err = svc.ApplyUpdate(learner.ID, ProgressUpdateRequest{
		TopicID:   "t1",
		QuizScore: intP(70),
		XPGain:    intP(-5),
	})
	assert.ErrorIs(t, err, model.ErrInvalidXPDelta)

	// 聚合整体保持拒绝前的状态，含测验分数与热力图
	persisted, err := store.Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, persisted.Gamification.XP)
	assert.Empty(t, persisted.Progress["t1"].QuizScores)

	todayKey := time.Now().UTC().Format(util.DateFormat)
	assert.Equal(t, 1, persisted.Gamification.Heatmap[todayKey])
}

func TestApplyUpdate_RecordsHeatmapActivity(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	for i := 0; i < 3; i++ {
		_, err := svc.ApplyUpdate(learner.ID, ProgressUpdateRequest{TopicID: "t1"})
		require.NoError(t, err)
	}

	persisted, err := store.Load(learner.ID)
	require.NoError(t, err)
	todayKey := time.Now().UTC().Format(util.DateFormat)
	assert.Equal(t, 3, persisted.Gamification.Heatmap[todayKey])
	assert.Len(t, persisted.Gamification.Heatmap, 1)
}

func TestApplyUpdate_UnknownLearner(t *testing.T) {
	svc := NewProgressService(repository.NewMemoryLearnerStore())

	_, err := svc.ApplyUpdate("missing", ProgressUpdateRequest{TopicID: "t1"})
	assert.ErrorIs(t, err, util.ErrLearnerNotFound)
}

func TestReadForDisplay(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	_, err := svc.ApplyUpdate(learner.ID, ProgressUpdateRequest{
		TopicID: "t1",
		XPGain:  intP(250),
	})
	require.NoError(t, err)

	view, err := svc.ReadForDisplay(learner.ID)
	require.NoError(t, err)

	assert.Equal(t, 250, view.Gamification.XP)
	assert.Equal(t, 3, view.Gamification.Level)
	assert.Equal(t, 300, view.Gamification.NextLevelXP)
	assert.Contains(t, view.Progress, "t1")
	assert.Len(t, view.Heatmap, HeatmapGridWeeks)

	// 读取路径不应记录活跃
	before, err := store.Load(learner.ID)
	require.NoError(t, err)
	_, err = svc.ReadForDisplay(learner.ID)
	require.NoError(t, err)
	after, err := store.Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Gamification.Heatmap, after.Gamification.Heatmap)
}

func TestCheckin_FirstAndIdempotent(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	first, err := svc.Checkin(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Gamification.Streak)

	todayKey := time.Now().UTC().Format(util.DateFormat)
	assert.Equal(t, todayKey, first.Gamification.LastCheckin)
	assert.Equal(t, 1, first.Gamification.Heatmap[todayKey])

	// 同一天重复打卡不改变任何状态
	second, err := svc.Checkin(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Gamification.Streak)
	assert.Equal(t, 1, second.Gamification.Heatmap[todayKey])
}

func TestCheckin_StreakContinuesFromYesterday(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(util.DateFormat)
	seeded, err := store.Load(learner.ID)
	require.NoError(t, err)
	seeded.Gamification.Streak = 4
	seeded.Gamification.LastCheckin = yesterday
	require.NoError(t, store.Save(seeded))

	updated, err := svc.Checkin(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Gamification.Streak)
}

func TestCheckin_StreakResetsAfterGap(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	lastWeek := time.Now().UTC().AddDate(0, 0, -7).Format(util.DateFormat)
	seeded, err := store.Load(learner.ID)
	require.NoError(t, err)
	seeded.Gamification.Streak = 9
	seeded.Gamification.LastCheckin = lastWeek
	require.NoError(t, store.Save(seeded))

	updated, err := svc.Checkin(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Gamification.Streak)
}

func TestGrantBadge_AllowsDuplicates(t *testing.T) {
	store := repository.NewMemoryLearnerStore()
	learner := newTestLearner(t, store)
	svc := NewProgressService(store)

	_, err := svc.GrantBadge(learner.ID, "七日连击")
	require.NoError(t, err)
	updated, err := svc.GrantBadge(learner.ID, "七日连击")
	require.NoError(t, err)

	assert.Equal(t, []string{"七日连击", "七日连击"}, updated.Gamification.Badges)
}
