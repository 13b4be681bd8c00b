package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func TestDashboardHandler_Stats(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.TestAdmin(t, env.db)

	now := time.Now()
	member := testutil.TestMember(t, env.db, testutil.WithPlan(model.PlanYearly, now, now.AddDate(1, 0, 0)))
	testutil.TestPayment(t, env.db, member.ID,
		testutil.WithAmount(8999),
		testutil.WithCompletedWindow(now, now.AddDate(1, 0, 0)),
	)

	r := gin.New()
	r.GET("/dashboard", mockAuth(admin.ID, model.RoleAdmin), env.dashboard.Stats)

	w := performRequest(t, r, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataAsMap(t, parseResponse(t, w))
	assert.Equal(t, float64(1), data["total_members"])
	assert.Equal(t, float64(1), data["active_members"])
	assert.Equal(t, float64(8999), data["total_revenue"])
}
