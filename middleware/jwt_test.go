package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expensetracker/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initJWTTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key"},
	}
	InitJWT(config.GlobalConfig)
}

func TestGenerateToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	token, err := GenerateToken(1, "testuser", 24*time.Hour)
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "expense-tracker", claims.Issuer)
}

func TestParseToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// 空字符串
	_, err := ParseToken("")
	assert.Error(t, err)

	// 无效格式
	_, err = ParseToken("not.a.valid.jwt")
	assert.Error(t, err)
	_, err = ParseToken("eyJhbGciOiJmb29iIn0.xxxx.yyyy")
	assert.Error(t, err)

	// 已过期
	expired, _ := GenerateToken(7, "old", -time.Minute)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	// 其他密钥签发
	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "expense-tracker"},
	}).SignedString([]byte("another-secret"))
	_, err = ParseToken(forged)
	assert.Error(t, err)
}

func TestJWTAuth(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()
	gin.SetMode(gin.TestMode)

	reached := false
	router := gin.New()
	router.Use(JWTAuth())
	router.GET("/protected", func(c *gin.Context) {
		reached = true
		c.String(200, "id:%d", GetCurrentUserID(c))
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 无 token
	w := do("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"未提供认证信息","kind":"unauthorized"}`, w.Body.String())

	// 非 Bearer
	assert.Equal(t, http.StatusUnauthorized, do("Basic xyz").Code)
	// 仅 Bearer 无 token
	assert.Equal(t, http.StatusUnauthorized, do("Bearer ").Code)
	// 伪造 token
	w = do("Bearer abc.def.ghi")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
	assert.False(t, reached)

	// 有效 token
	token, _ := GenerateToken(42, "user42", time.Hour)
	w = do("Bearer " + token)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "id:42", w.Body.String())
	assert.True(t, reached)
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))

	c.Set("userID", uint(99))
	c.Set("username", "bob")
	assert.Equal(t, uint(99), GetCurrentUserID(c))
	assert.Equal(t, "bob", GetCurrentUsername(c))
}
