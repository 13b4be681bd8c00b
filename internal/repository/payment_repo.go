package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

// PaymentWithOwner 支付记录与持有者的连接投影。
// 持有者被删除后 UserName/UserEmail 为空（孤儿支付保留）。
type PaymentWithOwner struct {
	model.Payment
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx 返回绑定到事务的仓库实例
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetByOrderID(orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("razorpay_order_id = ?", orderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) ListByUser(userID int64) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// ListAllWithOwner 列出全部支付记录并连接持有者姓名/邮箱
func (r *PaymentRepository) ListAllWithOwner() ([]PaymentWithOwner, error) {
	var rows []PaymentWithOwner
	err := r.db.Table("payments").
		Select("payments.*, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = payments.user_id").
		Order("payments.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// MarkCompleted 将待支付记录置为完成，写入支付号与购买的会籍区间
func (r *PaymentRepository) MarkCompleted(id int64, paymentID string, start, end time.Time) error {
	return r.db.Model(&model.Payment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":              model.PaymentStatusCompleted,
		"razorpay_payment_id": paymentID,
		"start_date":          start,
		"end_date":            end,
	}).Error
}

// MarkFailed 将待支付记录置为失败（终态）
func (r *PaymentRepository) MarkFailed(id int64) error {
	return r.db.Model(&model.Payment{}).Where("id = ?", id).
		Update("status", model.PaymentStatusFailed).Error
}

// SumCompleted 已完成支付的总额
func (r *PaymentRepository) SumCompleted() (float64, error) {
	var total float64
	err := r.db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
