package dto

// CreateOrderRequest 创建支付订单请求。
// 会籍套餐的价格以服务端配置为准；Amount 仅用于未配置价格的补充类付款。
type CreateOrderRequest struct {
	Membership    string  `json:"membership" binding:"required,oneof=monthly quarterly yearly"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=card upi netbanking cash"`
	Amount        float64 `json:"amount" binding:"omitempty,gt=0"`
}

// CreateOrderResponse 创建支付订单响应，金额单位为派萨（paise）
type CreateOrderResponse struct {
	OrderID  string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// VerifyPaymentRequest 支付验证请求
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	Membership        string `json:"membership" binding:"omitempty,oneof=monthly quarterly yearly"`
}

// DashboardStats 管理后台统计数据
type DashboardStats struct {
	TotalMembers  int64   `json:"total_members"`
	ActiveMembers int64   `json:"active_members"`
	ExpiringSoon  int64   `json:"expiring_soon"`
	TotalRevenue  float64 `json:"total_revenue"`
}
