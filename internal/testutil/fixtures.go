package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestMember 创建测试会员（默认月卡、active）
func TestMember(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	plan := model.PlanMonthly
	start := time.Now()
	end := start.AddDate(0, 1, 0)
	user := &model.User{
		Name:           fmt.Sprintf("Member %d", seq),
		Email:          fmt.Sprintf("member_%d_%d@example.com", seq, time.Now().UnixNano()),
		Phone:          fmt.Sprintf("98%08d", seq),
		PasswordHash:   "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		Role:           model.RoleMember,
		MembershipType: &plan,
		StartDate:      &start,
		EndDate:        &end,
		Status:         model.StatusActive,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return user
}

// TestAdmin 创建测试管理员
func TestAdmin(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	admin := &model.User{
		Name:         fmt.Sprintf("Admin %d", seq),
		Email:        fmt.Sprintf("admin_%d_%d@example.com", seq, time.Now().UnixNano()),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456",
		Role:         model.RoleAdmin,
		Status:       model.StatusActive,
	}

	for _, opt := range opts {
		opt(admin)
	}

	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return admin
}

// WithName 设置姓名
func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithPasswordHash 设置密码哈希
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = hash
	}
}

// WithPlan 设置会籍套餐与起止日期
func WithPlan(plan string, start, end time.Time) func(*model.User) {
	return func(u *model.User) {
		u.MembershipType = &plan
		u.StartDate = &start
		u.EndDate = &end
	}
}

// WithStatus 设置状态
func WithStatus(status string) func(*model.User) {
	return func(u *model.User) {
		u.Status = status
	}
}

// TestPayment 创建测试支付记录（默认 pending 月卡）
func TestPayment(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	seq := nextSeq()
	plan := model.PlanMonthly
	payment := &model.Payment{
		UserID:          userID,
		Amount:          999,
		PaymentType:     model.PaymentTypeMembership,
		PaymentMethod:   model.PaymentMethodUPI,
		RazorpayOrderID: fmt.Sprintf("order_test_%d", seq),
		Receipt:         fmt.Sprintf("rcpt_test_%d", seq),
		Membership:      &plan,
		Status:          model.PaymentStatusPending,
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithOrderID 设置网关订单号
func WithOrderID(orderID string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.RazorpayOrderID = orderID
	}
}

// WithAmount 设置金额
func WithAmount(amount float64) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Amount = amount
	}
}

// WithPaymentStatus 设置支付状态
func WithPaymentStatus(status string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = status
	}
}

// WithCompletedWindow 置为已完成并写入会籍区间
func WithCompletedWindow(start, end time.Time) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = model.PaymentStatusCompleted
		p.StartDate = &start
		p.EndDate = &end
	}
}
