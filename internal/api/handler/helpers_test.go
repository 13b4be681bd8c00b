package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/razorpay"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

// stubGateway 测试用支付网关
type stubGateway struct {
	verifyOK   bool
	failCreate bool
	nextOrder  string
}

func (g *stubGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*razorpay.Order, error) {
	if g.failCreate {
		return nil, errors.New("gateway down")
	}
	id := g.nextOrder
	if id == "" {
		id = "order_stub_1"
	}
	return &razorpay.Order{ID: id, Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return g.verifyOK
}

type testEnv struct {
	db      *gorm.DB
	gateway *stubGateway

	auth      *AuthHandler
	member    *MemberHandler
	payment   *PaymentHandler
	dashboard *DashboardHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Membership: config.MembershipConfig{
			Plans: map[string]config.PlanConfig{
				model.PlanMonthly:   {Price: 999},
				model.PlanQuarterly: {Price: 2499},
				model.PlanYearly:    {Price: 8999},
			},
			ExpiringSoonDays: 30,
		},
	}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 24
	cfg.Defaults.MemberPassword = "fitness123"

	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	gateway := &stubGateway{verifyOK: true}

	membershipService := service.NewMembershipService(db, userRepo, paymentRepo, gateway, nil, cfg)
	memberService := service.NewMemberService(userRepo, nil, nil, cfg)
	authService := service.NewAuthService(userRepo, cfg)
	dashboardService := service.NewDashboardService(userRepo, paymentRepo, nil, cfg)

	return &testEnv{
		db:        db,
		gateway:   gateway,
		auth:      NewAuthHandler(authService),
		member:    NewMemberHandler(memberService, membershipService),
		payment:   NewPaymentHandler(membershipService),
		dashboard: NewDashboardHandler(dashboardService),
	}
}

// mockAuth 模拟认证中间件写入的上下文键
func mockAuth(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.RoleKey, role)
	}
}

func performRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp
}

// dataAsMap 将响应 data 字段转为 map 以便断言
func dataAsMap(t *testing.T, resp *response.Response) map[string]interface{} {
	t.Helper()

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}
