package core

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	// 5 次/秒，10 次/分钟，封禁 1 秒
	rl := NewRateLimiter(5, 10, time.Second)
	t.Cleanup(rl.Stop)
	ip := "127.0.0.1"

	for i := range 5 {
		assert.True(t, rl.Allow(ip), "request %d should be allowed", i)
	}
	assert.False(t, rl.Allow(ip), "6th request should be blocked")
	assert.True(t, rl.IsBanned(ip))
	assert.False(t, rl.IsBanned("10.0.0.1"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 10, time.Minute)
	t.Cleanup(rl.Stop)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// 封禁期间直接拒绝并提示重试时间
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"listed origin", []string{"https://table.example"}, "https://TABLE.example", true},
		{"unlisted origin", []string{"https://table.example"}, "https://evil.example", false},
		{"no origin header", []string{"https://table.example"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, NewOriginChecker(tt.allowed).Check(req))
		})
	}
}

func TestIPFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ip      string
		allowed []string
		blocked []string
		setup   func(*IPFilter)
		want    bool
	}{
		{name: "default allow", ip: "192.168.1.1", want: true},
		{name: "blacklisted", ip: "192.168.1.2", blocked: []string{"192.168.1.2"}, want: false},
		{
			name:    "removed from blacklist",
			ip:      "192.168.1.3",
			blocked: []string{"192.168.1.3"},
			setup:   func(f *IPFilter) { f.RemoveFromBlacklist("192.168.1.3") },
			want:    true,
		},
		{
			name:  "added at runtime",
			ip:    "192.168.1.5",
			setup: func(f *IPFilter) { f.AddToBlacklist("192.168.1.5") },
			want:  false,
		},
		{name: "not in whitelist", ip: "192.168.1.4", allowed: []string{"10.0.0.1"}, want: false},
		{name: "in whitelist", ip: "10.0.0.1", allowed: []string{"10.0.0.1"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := NewIPFilter(tt.allowed, tt.blocked)
			if tt.setup != nil {
				tt.setup(f)
			}
			assert.Equal(t, tt.want, f.IsAllowed(tt.ip))
		})
	}
}

func TestIPFilter_BlockFor(t *testing.T) {
	t.Parallel()

	f := NewIPFilter(nil, []string{"198.51.100.1"})
	assert.False(t, f.BlockFor("", time.Minute))
	assert.False(t, f.BlockFor("198.51.100.1", time.Millisecond), "configured entries stay blocked")

	assert.True(t, f.BlockFor("198.51.100.2", 50*time.Millisecond))
	assert.False(t, f.IsAllowed("198.51.100.2"))
	assert.Eventually(t, func() bool { return f.IsAllowed("198.51.100.2") }, time.Second, 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.False(t, f.IsAllowed("198.51.100.1"))
}

func TestIPFilter_Middleware(t *testing.T) {
	t.Parallel()

	f := NewIPFilter(nil, []string{"203.0.113.9"})
	h := f.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "9.9.9.9:80", "1.2.3.4"},
		{"real ip header", map[string]string{"X-Real-IP": "4.3.2.1"}, "9.9.9.9:80", "4.3.2.1"},
		{"remote addr", nil, "9.9.9.9:80", "9.9.9.9"},
		{"remote without port", nil, "9.9.9.9", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}

func TestMessageRateLimiter(t *testing.T) {
	t.Parallel()

	// 5 条/秒，警告阈值 2
	ml := NewMessageRateLimiter(5)
	clientID := "client1"

	for i := range 5 {
		allowed, warning := ml.AllowMessage(clientID)
		assert.True(t, allowed)
		assert.Equal(t, i >= 2, warning, "message %d", i)
	}

	allowed, warning := ml.AllowMessage(clientID)
	assert.False(t, allowed)
	assert.True(t, warning)
	assert.Equal(t, 1, ml.GetWarningCount(clientID))

	ml.RemoveClient(clientID)
	assert.Equal(t, 0, ml.GetWarningCount(clientID))
}
