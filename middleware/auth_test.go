package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"srburger-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func router() *gin.Engine {
	r := gin.New()
	r.GET("/admin", AdminRequired(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetAdminID(c), "email": GetEmail(c)})
	})
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRequired(t *testing.T) {
	token, err := GenerateToken(&models.AdminUser{ID: 7, Email: "admin@srburger.mx"}, secret)
	if err != nil {
		t.Fatal(err)
	}
	other, _ := GenerateToken(&models.AdminUser{ID: 7}, []byte("another-secret"))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AdminID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredStr, _ := expired.SignedString(secret)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + other, http.StatusUnauthorized},
		{"expired", "Bearer " + expiredStr, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}
	r := router()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.header); w.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.status, w.Body)
			}
		})
	}

	w := do(r, "Bearer "+token)
	if body := w.Body.String(); body != `{"email":"admin@srburger.mx","id":7}` {
		t.Errorf("body = %s", body)
	}
}
