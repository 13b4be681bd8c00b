package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func bcryptHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)

	r := gin.New()
	r.POST("/login", env.auth.Login)

	member := testutil.TestMember(t, env.db, testutil.WithPasswordHash(bcryptHash(t, "secret123")))

	t.Run("success", func(t *testing.T) {
		w := performRequest(t, r, http.MethodPost, "/login", gin.H{
			"email":    member.Email,
			"password": "secret123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeSuccess, resp.Code)

		data := dataAsMap(t, resp)
		assert.NotEmpty(t, data["token"])
		user := data["user"].(map[string]interface{})
		assert.Equal(t, member.Email, user["email"])
		// 凭据字段不得出现在响应中
		_, leaked := user["password_hash"]
		assert.False(t, leaked)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := performRequest(t, r, http.MethodPost, "/login", gin.H{
			"email":    member.Email,
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.CodeAuthFailed, parseResponse(t, w).Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := performRequest(t, r, http.MethodPost, "/login", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := newTestEnv(t)

	member := testutil.TestMember(t, env.db, testutil.WithPasswordHash(bcryptHash(t, "oldpass12")))

	r := gin.New()
	r.PUT("/password", mockAuth(member.ID, model.RoleMember), env.auth.ChangePassword)

	t.Run("success", func(t *testing.T) {
		w := performRequest(t, r, http.MethodPut, "/password", gin.H{
			"old_password": "oldpass12",
			"new_password": "newpass12",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong old password", func(t *testing.T) {
		w := performRequest(t, r, http.MethodPut, "/password", gin.H{
			"old_password": "nope",
			"new_password": "another12",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("new password too short", func(t *testing.T) {
		w := performRequest(t, r, http.MethodPut, "/password", gin.H{
			"old_password": "newpass12",
			"new_password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
