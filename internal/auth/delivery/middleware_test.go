package delivery

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"disposal-backend/internal/auth/domain"

	"github.com/gin-gonic/gin"
)

type stubAuth struct{}

func (stubAuth) ValidateToken(token string) (*domain.Principal, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	return &domain.Principal{UserID: "u1", Email: "u1@example.com"}, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(stubAuth{}), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "key": c.GetString(UserIDKey)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}

	r := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != `{"key":"u1","user_id":"u1"}` {
				t.Errorf("unexpected body %s", w.Body.String())
			}
		})
	}
}

func TestPrincipalFrom_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := PrincipalFrom(c); ok {
		t.Error("expected no principal on an unauthenticated context")
	}
}
