package model

import (
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	PlanMonthly   = "monthly"
	PlanQuarterly = "quarterly"
	PlanYearly    = "yearly"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

type User struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:100;not null" json:"name"`
	Email          string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone          string     `gorm:"size:20" json:"phone"`
	PasswordHash   string     `gorm:"size:255" json:"-"`
	Role           string     `gorm:"size:20;default:member;index" json:"role"`
	MembershipType *string    `gorm:"size:20" json:"membership_type,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `gorm:"index" json:"end_date,omitempty"`
	Status         string     `gorm:"size:20;default:active" json:"status"`
	PhotoURL       string     `gorm:"size:500" json:"photo_url"`
	// Version 乐观锁版本号，防止并发续费/编辑互相覆盖
	Version   int64     `gorm:"default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsPlanValid 校验会籍类型取值
func IsPlanValid(plan string) bool {
	switch plan {
	case PlanMonthly, PlanQuarterly, PlanYearly:
		return true
	}
	return false
}
