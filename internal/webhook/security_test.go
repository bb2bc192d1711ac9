package webhook

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(cfg Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook/test", RateLimit(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/test", nil)
	req.RemoteAddr = ip + ":12345"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newTestRouter(Config{Enabled: false, RateLimitPerMin: 1})

	for i := 0; i < 20; i++ {
		if code := post(r, "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200 with limiter disabled, got %d", i, code)
		}
	}
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	// 60/min gives a burst of 6
	r := newTestRouter(Config{Enabled: true, RateLimitPerMin: 60})

	allowed := 0
	var blocked bool
	for i := 0; i < 20; i++ {
		switch code := post(r, "10.0.0.2"); code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			blocked = true
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}

	if !blocked {
		t.Error("expected the limiter to kick in within 20 rapid requests")
	}
	if allowed == 0 {
		t.Error("expected at least the burst to pass")
	}
}

func TestRateLimit_SourcesAreIndependent(t *testing.T) {
	r := newTestRouter(Config{Enabled: true, RateLimitPerMin: 60})

	// Exhaust the first source
	for i := 0; i < 20; i++ {
		post(r, "10.0.0.3")
	}

	if code := post(r, "10.0.0.4"); code != http.StatusOK {
		t.Errorf("a fresh source must not inherit another source's limit, got %d", code)
	}
}

func TestExtractIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded-for first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.9:80", "203.0.113.7"},
		{"real-ip", map[string]string{"X-Real-IP": "203.0.113.8"}, "10.0.0.9:80", "203.0.113.8"},
		{"remote addr", nil, "203.0.113.9:443", "203.0.113.9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := extractIP(req); got != tc.want {
				t.Errorf("extractIP = %q, want %q", got, tc.want)
			}
		})
	}
}
