package service

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/cache"
	"github.com/qs3c/gym_go_server/internal/pkg/razorpay"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrUnknownPlan        = errors.New("unknown membership plan")
	ErrInvalidAmount      = errors.New("invalid payment amount")
	ErrOrderNotFound      = errors.New("payment order not found")
	ErrOrderAlreadyClosed = errors.New("payment already processed")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrConcurrentUpdate   = errors.New("member record was modified concurrently")
)

const defaultExpiringSoonDays = 30

// PaymentGateway 支付网关契约，生产实现为 razorpay.Client
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type MembershipService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	paymentRepo *repository.PaymentRepository
	gateway     PaymentGateway
	statsCache  *cache.DashboardCache
	cfg         *config.Config
}

func NewMembershipService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	paymentRepo *repository.PaymentRepository,
	gateway PaymentGateway,
	statsCache *cache.DashboardCache,
	cfg *config.Config,
) *MembershipService {
	return &MembershipService{
		db:          db,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		statsCache:  statsCache,
		cfg:         cfg,
	}
}

// ComputeWindow 按套餐计算会籍区间。采用日历加法，
// 月末溢出遵循 time.AddDate 的归一化规则（如 1月31日 +1月 = 3月2日/3日）。
func ComputeWindow(plan string, start time.Time) (time.Time, time.Time, error) {
	switch plan {
	case model.PlanMonthly:
		return start, start.AddDate(0, 1, 0), nil
	case model.PlanQuarterly:
		return start, start.AddDate(0, 3, 0), nil
	case model.PlanYearly:
		return start, start.AddDate(1, 0, 0), nil
	}
	return time.Time{}, time.Time{}, ErrUnknownPlan
}

// DaysRemaining 到期剩余天数，按不足一天进一，已过期为 0
func DaysRemaining(end, now time.Time) int {
	if !end.After(now) {
		return 0
	}
	remaining := end.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func (s *MembershipService) expiringSoonDays() int {
	if s.cfg.Membership.ExpiringSoonDays > 0 {
		return s.cfg.Membership.ExpiringSoonDays
	}
	return defaultExpiringSoonDays
}

// MemberStatus 会籍状态只读投影（本人或管理员可见）
func (s *MembershipService) MemberStatus(targetID, requesterID int64, requesterRole string) (*dto.MemberStatusResponse, error) {
	if requesterRole != model.RoleAdmin && requesterID != targetID {
		return nil, ErrPermissionDenied
	}

	user, err := s.userRepo.GetByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	resp := &dto.MemberStatusResponse{
		Status: user.Status,
	}
	if user.MembershipType != nil {
		resp.MembershipType = *user.MembershipType
	}
	if user.EndDate != nil {
		resp.EndDate = user.EndDate.Format("2006-01-02")
		resp.DaysRemaining = DaysRemaining(*user.EndDate, time.Now())
		resp.ExpiringSoon = resp.DaysRemaining <= s.expiringSoonDays()
	}

	return resp, nil
}

// CreateOrder 创建支付订单：持久化 pending 支付记录并向网关下单。
// 会籍套餐金额以服务端价格表为准，不信任调用方金额。
func (s *MembershipService) CreateOrder(ctx context.Context, userID int64, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	amount := req.Amount
	if plan, ok := s.cfg.Membership.Plans[req.Membership]; ok && plan.Price > 0 {
		amount = plan.Price
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	receipt := "rcpt_" + uuid.NewString()
	amountPaise := int64(math.Round(amount * 100))

	order, err := s.gateway.CreateOrder(ctx, amountPaise, "INR", receipt)
	if err != nil {
		log.Printf("razorpay create order failed for user %d: %v", user.ID, err)
		return nil, ErrGatewayUnavailable
	}

	membership := req.Membership
	payment := &model.Payment{
		UserID:          user.ID,
		Amount:          amount,
		PaymentType:     model.PaymentTypeMembership,
		PaymentMethod:   req.PaymentMethod,
		RazorpayOrderID: order.ID,
		Receipt:         receipt,
		Membership:      &membership,
		Status:          model.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	return &dto.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   amountPaise,
		Currency: "INR",
		Receipt:  receipt,
	}, nil
}

// VerifyAndApply 验证网关签名并应用会籍：支付记录置为完成、
// 会员的套餐/起止日期/状态在同一事务中更新，两者要么都生效要么都不生效。
func (s *MembershipService) VerifyAndApply(ctx context.Context, userID int64, req *dto.VerifyPaymentRequest) (*model.Payment, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	payment, err := s.paymentRepo.GetByOrderID(req.RazorpayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if payment.UserID != user.ID {
		return nil, ErrPermissionDenied
	}
	// completed/failed 均为终态，不允许再次流转
	if payment.Status != model.PaymentStatusPending {
		return nil, ErrOrderAlreadyClosed
	}

	// 验签是必经步骤，不信任调用方回传的支付号
	if !s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if err := s.paymentRepo.MarkFailed(payment.ID); err != nil {
			log.Printf("failed to mark payment %d failed: %v", payment.ID, err)
		}
		return nil, ErrVerificationFailed
	}

	plan := req.Membership
	if plan == "" && payment.Membership != nil {
		plan = *payment.Membership
	}
	start, end, err := ComputeWindow(plan, time.Now())
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).MarkCompleted(payment.ID, req.RazorpayPaymentID, start, end); err != nil {
			return err
		}

		rows, err := s.userRepo.WithTx(tx).ApplyMembership(user.ID, user.Version, plan, start, end)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConcurrentUpdate
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx); err != nil {
			log.Printf("failed to invalidate dashboard cache: %v", err)
		}
	}

	return s.paymentRepo.GetByID(payment.ID)
}

// ListPayments 全部支付记录（管理员），连接持有者姓名/邮箱
func (s *MembershipService) ListPayments() ([]repository.PaymentWithOwner, error) {
	return s.paymentRepo.ListAllWithOwner()
}

// ListUserPayments 指定账户的支付记录（本人或管理员）
func (s *MembershipService) ListUserPayments(targetID, requesterID int64, requesterRole string) ([]model.Payment, error) {
	if requesterRole != model.RoleAdmin && requesterID != targetID {
		return nil, ErrPermissionDenied
	}
	return s.paymentRepo.ListByUser(targetID)
}
