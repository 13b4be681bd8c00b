package dto

// CreateMemberRequest 创建会员请求，日期格式为 YYYY-MM-DD
type CreateMemberRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required,min=6,max=20"`
	MembershipType string `json:"membership_type" binding:"required,oneof=monthly quarterly yearly"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
}

// UpdateMemberRequest 更新会员请求，仅更新出现的字段（字段掩码）
type UpdateMemberRequest struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone          *string `json:"phone,omitempty"`
	MembershipType *string `json:"membership_type,omitempty" binding:"omitempty,oneof=monthly quarterly yearly"`
	StartDate      *string `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`
	Status         *string `json:"status,omitempty" binding:"omitempty,oneof=active inactive pending"`
}

// MemberStatusResponse 会籍状态只读投影
type MemberStatusResponse struct {
	MembershipType string `json:"membership_type,omitempty"`
	Status         string `json:"status"`
	EndDate        string `json:"end_date,omitempty"`
	DaysRemaining  int    `json:"days_remaining"`
	ExpiringSoon   bool   `json:"expiring_soon"`
}
