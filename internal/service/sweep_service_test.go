package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func TestSweepService_SweepExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	userRepo := repository.NewUserRepository(db)
	s := NewSweepService(userRepo, nil)

	now := time.Now()
	expired := testutil.TestMember(t, db,
		testutil.WithPlan(model.PlanMonthly, now.AddDate(0, -2, 0), now.AddDate(0, -1, 0)),
	)
	current := testutil.TestMember(t, db,
		testutil.WithPlan(model.PlanYearly, now, now.AddDate(1, 0, 0)),
	)
	alreadyInactive := testutil.TestMember(t, db,
		testutil.WithPlan(model.PlanMonthly, now.AddDate(0, -2, 0), now.AddDate(0, -1, 0)),
		testutil.WithStatus(model.StatusInactive),
	)

	rows, err := s.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	swept, err := userRepo.GetByID(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, swept.Status)
	assert.Equal(t, expired.Version+1, swept.Version)

	kept, err := userRepo.GetByID(current.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, kept.Status)

	// 已是 inactive 的不重复处理
	untouched, err := userRepo.GetByID(alreadyInactive.ID)
	require.NoError(t, err)
	assert.Equal(t, alreadyInactive.Version, untouched.Version)

	// 再扫一次没有可处理的行
	rows, err = s.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rows)
}
