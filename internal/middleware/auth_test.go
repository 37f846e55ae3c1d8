package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubValidator struct {
	userID uuid.UUID
	err    error
	seen   string
}

func (s *stubValidator) ValidateToken(_ context.Context, tokenStr string) (uuid.UUID, error) {
	s.seen = tokenStr
	return s.userID, s.err
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		validator  *stubValidator
		wantStatus int
		wantToken  string
	}{
		{
			name:       "성공: 유효한 토큰",
			header:     "Bearer good-token",
			validator:  &stubValidator{userID: userID},
			wantStatus: http.StatusOK,
			wantToken:  "good-token",
		},
		{
			name:       "성공: 소문자 bearer",
			header:     "bearer good-token",
			validator:  &stubValidator{userID: userID},
			wantStatus: http.StatusOK,
			wantToken:  "good-token",
		},
		{
			name:       "실패: 헤더 없음",
			header:     "",
			validator:  &stubValidator{userID: userID},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "실패: 잘못된 형식",
			header:     "Token abc",
			validator:  &stubValidator{userID: userID},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "실패: 빈 토큰",
			header:     "Bearer   ",
			validator:  &stubValidator{userID: userID},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "실패: 검증 실패",
			header:     "Bearer revoked",
			validator:  &stubValidator{err: errors.New("revoked")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID uuid.UUID
			var gotToken string

			router := gin.New()
			router.Use(Auth(tt.validator))
			router.GET("/dashboard", func(c *gin.Context) {
				gotUserID = c.MustGet("user_id").(uuid.UUID)
				gotToken = c.GetString("jwtToken")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, gotUserID)
				assert.Equal(t, tt.wantToken, gotToken)
				return
			}

			assert.Equal(t, LoginPath, w.Header().Get("Location"))
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, LoginPath, body["loginUrl"])
			assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]interface{})["code"])
		})
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("성공: 허용된 origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("실패: 허용되지 않은 origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("성공: preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Recovery(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
