package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret, rol string, exp time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   uuid.NewString(),
		Username: "recepcion",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/x", func(c *gin.Context) {
		id := UsuarioID(c)
		c.JSON(http.StatusOK, gin.H{"user": id != nil})
	})
	return r
}

func get(r http.Handler, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_SinToken(t *testing.T) {
	r := newEngine(JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
}

func TestJWTAuth_TokenValido(t *testing.T) {
	r := newEngine(JWTAuth(testSecret))
	w := get(r, signToken(t, testSecret, RolAdministrativo, time.Hour))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":true}`, w.Body.String())
}

func TestJWTAuth_TokenVencido(t *testing.T) {
	r := newEngine(JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, get(r, signToken(t, testSecret, RolAdministrativo, -time.Minute)).Code)
}

func TestJWTAuth_FirmaIncorrecta(t *testing.T) {
	r := newEngine(JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, get(r, signToken(t, "otra-clave", RolAdministrador, time.Hour)).Code)
}

func TestRequireRole(t *testing.T) {
	r := newEngine(JWTAuth(testSecret), RequireRole(RolAdministrador, RolAdministrativo))

	assert.Equal(t, http.StatusOK, get(r, signToken(t, testSecret, RolAdministrativo, time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, get(r, signToken(t, testSecret, RolProfesional, time.Hour)).Code)
}

func TestRequireRole_SinClaims(t *testing.T) {
	r := newEngine(RequireRole(RolAdministrador))
	assert.Equal(t, http.StatusForbidden, get(r, "").Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, "", RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = get(r, "")
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/x", func(*gin.Context) { panic("boom") })

	w := get(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	r := newEngine(RateLimiter(NewIPLimiter("2-M")))

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestNewIPLimiter_FormatoInvalido(t *testing.T) {
	l := NewIPLimiter("muchas")
	assert.Equal(t, int64(1000), l.Rate.Limit)
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS("https://clinica.example"))
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://clinica.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://clinica.example", w.Header().Get("Access-Control-Allow-Origin"))
}
