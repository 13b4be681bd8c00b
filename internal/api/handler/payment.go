package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type PaymentHandler struct {
	membershipService *service.MembershipService
}

func NewPaymentHandler(membershipService *service.MembershipService) *PaymentHandler {
	return &PaymentHandler{
		membershipService: membershipService,
	}
}

// CreateOrder 创建支付订单
// POST /api/v1/payments/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.membershipService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrUnknownPlan), errors.Is(err, service.ErrInvalidAmount):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrGatewayUnavailable):
			response.GatewayError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// Verify 验证支付并应用会籍
// POST /api/v1/payments/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.membershipService.VerifyAndApply(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound), errors.Is(err, service.ErrOrderNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPermissionDenied):
			response.PermissionError(c, "")
		case errors.Is(err, service.ErrOrderAlreadyClosed), errors.Is(err, service.ErrUnknownPlan):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrVerificationFailed):
			response.GatewayError(c, err.Error())
		case errors.Is(err, service.ErrConcurrentUpdate):
			response.ConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, gin.H{
		"success": true,
		"payment": payment,
	})
}

// ListAll 全部支付记录（管理员）
// GET /api/v1/payments
func (h *PaymentHandler) ListAll(c *gin.Context) {
	payments, err := h.membershipService.ListPayments()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, payments)
}

// ListByUser 指定账户的支付记录
// GET /api/v1/payments/user/:userId
func (h *PaymentHandler) ListByUser(c *gin.Context) {
	targetID, err := parseIDParam(c, "userId")
	if err != nil {
		response.ParamError(c, "invalid user id")
		return
	}

	requesterID, requesterRole, ok := requester(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	payments, err := h.membershipService.ListUserPayments(targetID, requesterID, requesterRole)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.PermissionError(c, "")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, payments)
}
