package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newEngine(keys map[string]string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/ping", IngestKeyMiddleware(keys), func(c *gin.Context) {
		c.String(http.StatusOK, Source(c))
	})
	return r
}

func TestIngestKeyMiddleware(t *testing.T) {
	keys := map[string]string{"k-lab": "lab"}

	testCases := []struct {
		name     string
		keys     map[string]string
		header   string
		wantCode int
		wantBody string
	}{
		{"open when unconfigured", nil, "", http.StatusOK, ""},
		{"open ignores header", nil, "anything", http.StatusOK, ""},
		{"missing key", keys, "", http.StatusUnauthorized, ""},
		{"wrong key", keys, "k-other", http.StatusUnauthorized, ""},
		{"matching key", keys, " k-lab ", http.StatusOK, "lab"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("X-API-Key", tc.header)
			}
			w := httptest.NewRecorder()
			newEngine(tc.keys).ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantCode)
			}
			if tc.wantCode == http.StatusOK && w.Body.String() != tc.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tc.wantBody)
			}
		})
	}
}
