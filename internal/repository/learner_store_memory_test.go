package repository

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLearnerStore_CreateAndLoad(t *testing.T) {
	store := NewMemoryLearnerStore()
	learner := model.NewLearner("小李", "li@example.com")

	require.NoError(t, store.Create(learner))
	assert.NotEmpty(t, learner.ID)
	assert.EqualValues(t, 1, learner.Version)

	loaded, err := store.Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, "小李", loaded.Profile.Name)
	assert.Equal(t, "li@example.com", loaded.Profile.Email)
}

func TestMemoryLearnerStore_LoadNotFound(t *testing.T) {
	store := NewMemoryLearnerStore()

	_, err := store.Load("no-such-id")
	assert.ErrorIs(t, err, util.ErrLearnerNotFound)
}

func TestMemoryLearnerStore_DuplicateEmail(t *testing.T) {
	store := NewMemoryLearnerStore()

	require.NoError(t, store.Create(model.NewLearner("甲", "dup@example.com")))
	err := store.Create(model.NewLearner("乙", "dup@example.com"))
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestMemoryLearnerStore_LoadReturnsIsolatedCopy(t *testing.T) {
	store := NewMemoryLearnerStore()
	learner := model.NewLearner("隔离", "iso@example.com")
	require.NoError(t, store.Create(learner))

	first, err := store.Load(learner.ID)
	require.NoError(t, err)

	// 改动副本不应污染存储中的状态
	first.Gamification.XP = 999
	first.Gamification.GrantBadge("篡改")
	first.Gamification.RecordActivity("2026-09-01")
	first.Progress.Upsert("hack", nil, nil, nil)

	second, err := store.Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Gamification.XP)
	assert.Empty(t, second.Gamification.Badges)
	assert.Empty(t, second.Gamification.Heatmap)
	assert.Empty(t, second.Progress)
}

func TestMemoryLearnerStore_SaveBumpsVersion(t *testing.T) {
	store := NewMemoryLearnerStore()
	learner := model.NewLearner("版本", "ver@example.com")
	require.NoError(t, store.Create(learner))

	loaded, err := store.Load(learner.ID)
	require.NoError(t, err)
	loaded.Gamification.XP = 50

	require.NoError(t, store.Save(loaded))
	assert.EqualValues(t, 2, loaded.Version)

	again, err := store.Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, again.Gamification.XP)
	assert.EqualValues(t, 2, again.Version)
}

func TestMemoryLearnerStore_SaveStaleVersionConflicts(t *testing.T) {
	store := NewMemoryLearnerStore()
	learner := model.NewLearner("冲突", "conflict@example.com")
	require.NoError(t, store.Create(learner))

	a, err := store.Load(learner.ID)
	require.NoError(t, err)
	b, err := store.Load(learner.ID)
	require.NoError(t, err)

	a.Gamification.XP = 10
	require.NoError(t, store.Save(a))

	b.Gamification.XP = 20
	err = store.Save(b)
	assert.ErrorIs(t, err, util.ErrVersionConflict)

	// 先写入的结果保持不变
	cur, err := store.Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, cur.Gamification.XP)
}

func TestMemoryLearnerStore_SaveUnknownLearner(t *testing.T) {
	store := NewMemoryLearnerStore()
	ghost := model.NewLearner("幽灵", "ghost@example.com")
	ghost.ID = "never-created"
	ghost.Version = 1

	assert.ErrorIs(t, store.Save(ghost), util.ErrLearnerNotFound)
}

func TestMemoryLearnerStore_ListTopByXP(t *testing.T) {
	store := NewMemoryLearnerStore()

	xps := map[string]int{"a@x.com": 300, "b@x.com": 100, "c@x.com": 300, "d@x.com": 50}
	ids := map[string]string{}
	for email, xp := range xps {
		l := model.NewLearner(email, email)
		l.Gamification.XP = xp
		require.NoError(t, store.Create(l))
		ids[email] = l.ID
	}

	top, err := store.ListTopByXP(3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, 300, top[0].Gamification.XP)
	assert.Equal(t, 300, top[1].Gamification.XP)
	assert.Equal(t, 100, top[2].Gamification.XP)
	// 同分时按ID升序稳定排序
	assert.Less(t, top[0].ID, top[1].ID)
}

func TestMemoryLearnerStore_ListTopByXPNoLimit(t *testing.T) {
	store := NewMemoryLearnerStore()
	require.NoError(t, store.Create(model.NewLearner("一", "one@x.com")))
	require.NoError(t, store.Create(model.NewLearner("二", "two@x.com")))

	all, err := store.ListTopByXP(0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
