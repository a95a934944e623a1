package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Le middleware consomme le body pour en extraire l'email : le handler suivant
// doit quand même pouvoir le relire intégralement, y compris quand le
// middleware sort avant la vérification Redis (body sans email ou illisible).
func TestLoginRateLimitPreservesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/login", LoginRateLimit(), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})

	cases := []struct {
		name string
		body string
	}{
		{"email absent", `{"password":"secret"}`},
		{"json illisible", `{"email": not-json`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.body))
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}
