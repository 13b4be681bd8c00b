package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func setupMemberService(t *testing.T) (*MemberService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{}
	cfg.Defaults.MemberPassword = "fitness123"

	return NewMemberService(repository.NewUserRepository(db), nil, nil, cfg), db
}

func strPtr(s string) *string { return &s }

func TestMemberService_Create(t *testing.T) {
	s, _ := setupMemberService(t)

	info, err := s.Create(context.Background(), &dto.CreateMemberRequest{
		Name:           "Asha",
		Email:          "asha@example.com",
		Phone:          "9812345678",
		MembershipType: model.PlanQuarterly,
		StartDate:      "2024-03-01",
		EndDate:        "2024-06-01",
	})
	require.NoError(t, err)

	assert.NotZero(t, info.ID)
	assert.Equal(t, "Asha", info.Name)
	assert.Equal(t, model.RoleMember, info.Role)
	assert.Equal(t, model.StatusActive, info.Status)
	assert.Equal(t, model.PlanQuarterly, info.MembershipType)
	assert.Equal(t, "2024-03-01", info.StartDate)
	assert.Equal(t, "2024-06-01", info.EndDate)
}

func TestMemberService_Create_SharedDefaultPassword(t *testing.T) {
	s, db := setupMemberService(t)

	info, err := s.Create(context.Background(), &dto.CreateMemberRequest{
		Name:           "Ravi",
		Email:          "ravi@example.com",
		MembershipType: model.PlanMonthly,
		StartDate:      "2024-03-01",
		EndDate:        "2024-04-01",
	})
	require.NoError(t, err)

	// 新会员凭共用初始密码登录
	user, err := repository.NewUserRepository(db).GetByID(info.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("fitness123")))
}

func TestMemberService_Create_DuplicateEmail(t *testing.T) {
	s, db := setupMemberService(t)

	testutil.TestMember(t, db, testutil.WithEmail("taken@example.com"))

	_, err := s.Create(context.Background(), &dto.CreateMemberRequest{
		Name:           "Dup",
		Email:          "taken@example.com",
		MembershipType: model.PlanMonthly,
		StartDate:      "2024-03-01",
		EndDate:        "2024-04-01",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestMemberService_Create_BadDates(t *testing.T) {
	s, _ := setupMemberService(t)

	_, err := s.Create(context.Background(), &dto.CreateMemberRequest{
		Name:           "Bad",
		Email:          "bad@example.com",
		MembershipType: model.PlanMonthly,
		StartDate:      "03/01/2024",
		EndDate:        "2024-04-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = s.Create(context.Background(), &dto.CreateMemberRequest{
		Name:           "Backwards",
		Email:          "backwards@example.com",
		MembershipType: model.PlanMonthly,
		StartDate:      "2024-04-01",
		EndDate:        "2024-03-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestMemberService_List_ExcludesAdminsAndCredentials(t *testing.T) {
	s, db := setupMemberService(t)

	testutil.TestMember(t, db, testutil.WithName("Only Member"))
	testutil.TestAdmin(t, db)

	infos, err := s.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Only Member", infos[0].Name)
	assert.Equal(t, model.RoleMember, infos[0].Role)
}

func TestMemberService_Get_Permissions(t *testing.T) {
	s, db := setupMemberService(t)

	member := testutil.TestMember(t, db)
	other := testutil.TestMember(t, db)
	admin := testutil.TestAdmin(t, db)

	t.Run("self", func(t *testing.T) {
		info, err := s.Get(member.ID, member.ID, model.RoleMember)
		require.NoError(t, err)
		assert.Equal(t, member.Email, info.Email)
	})

	t.Run("admin", func(t *testing.T) {
		_, err := s.Get(member.ID, admin.ID, model.RoleAdmin)
		assert.NoError(t, err)
	})

	t.Run("other member denied", func(t *testing.T) {
		_, err := s.Get(member.ID, other.ID, model.RoleMember)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Get(99999, admin.ID, model.RoleAdmin)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestMemberService_Update_FieldMask(t *testing.T) {
	s, db := setupMemberService(t)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	member := testutil.TestMember(t, db,
		testutil.WithName("Asha"),
		testutil.WithPlan(model.PlanQuarterly, start, end),
	)

	// 只改套餐，其余字段不动
	info, err := s.Update(context.Background(), member.ID, &dto.UpdateMemberRequest{
		MembershipType: strPtr(model.PlanYearly),
	})
	require.NoError(t, err)

	assert.Equal(t, model.PlanYearly, info.MembershipType)
	assert.Equal(t, "Asha", info.Name)
	assert.Equal(t, "2024-03-01", info.StartDate)
	assert.Equal(t, "2024-06-01", info.EndDate)

	updated, err := repository.NewUserRepository(db).GetByID(member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.Version+1, updated.Version)
}

func TestMemberService_Update_DateRangeAgainstExisting(t *testing.T) {
	s, db := setupMemberService(t)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	member := testutil.TestMember(t, db, testutil.WithPlan(model.PlanMonthly, start, end))

	// 新结束日期早于现有的开始日期
	_, err := s.Update(context.Background(), member.ID, &dto.UpdateMemberRequest{
		EndDate: strPtr("2024-02-01"),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestMemberService_Update_DuplicateEmail(t *testing.T) {
	s, db := setupMemberService(t)

	testutil.TestMember(t, db, testutil.WithEmail("claimed@example.com"))
	member := testutil.TestMember(t, db)

	_, err := s.Update(context.Background(), member.ID, &dto.UpdateMemberRequest{
		Email: strPtr("claimed@example.com"),
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestMemberService_Update_NotFound(t *testing.T) {
	s, _ := setupMemberService(t)

	_, err := s.Update(context.Background(), 99999, &dto.UpdateMemberRequest{
		Name: strPtr("Nobody"),
	})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMemberService_Delete(t *testing.T) {
	s, db := setupMemberService(t)

	member := testutil.TestMember(t, db)
	payment := testutil.TestPayment(t, db, member.ID)

	require.NoError(t, s.Delete(context.Background(), member.ID))

	// 重复删除报错，不做幂等处理
	assert.ErrorIs(t, s.Delete(context.Background(), member.ID), ErrMemberNotFound)

	// 支付记录保留为审计痕迹
	kept, err := repository.NewPaymentRepository(db).GetByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, kept.UserID)
}
