package model

import (
	"time"
)

const (
	PaymentTypeMembership = "membership"
	PaymentTypeAddon      = "addon"
	PaymentTypeOther      = "other"
)

const (
	PaymentMethodCard       = "card"
	PaymentMethodUPI        = "upi"
	PaymentMethodNetbanking = "netbanking"
	PaymentMethodCash       = "cash"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	ID                int64      `gorm:"primaryKey" json:"id"`
	UserID            int64      `gorm:"not null;index" json:"user_id"`
	Amount            float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentType       string     `gorm:"size:20;default:membership" json:"payment_type"`
	PaymentMethod     string     `gorm:"size:20;not null" json:"payment_method"`
	RazorpayOrderID   string     `gorm:"size:100;index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string     `gorm:"size:100" json:"razorpay_payment_id,omitempty"`
	Receipt           string     `gorm:"size:100" json:"receipt,omitempty"`
	Membership        *string    `gorm:"size:20" json:"membership,omitempty"`
	Status            string     `gorm:"size:20;default:pending;index" json:"status"`
	// StartDate/EndDate 本次付款购买的会籍区间，仅在完成时写入
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
