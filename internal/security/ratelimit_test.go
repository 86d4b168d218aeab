package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the limit should be denied")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first client's request should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("first client should be exhausted")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client should have its own budget")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("second request inside the window should be denied")
	}

	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Error("request after the window expired should be allowed")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr only", "192.0.2.10:54321", nil, "192.0.2.10"},
		{"remote addr without port", "192.0.2.10", nil, "192.0.2.10"},
		{"x-real-ip wins over socket", "10.0.0.1:80", map[string]string{"X-Real-IP": "192.0.2.20"}, "192.0.2.20"},
		{"forwarded-for single hop", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "192.0.2.30"}, "192.0.2.30"},
		{"forwarded-for chain takes first hop", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "192.0.2.40, 10.0.0.2, 10.0.0.3"}, "192.0.2.40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/login", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
