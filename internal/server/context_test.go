package server

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), "staff-1", "school-1", "admin")

	if v, ok := GetStaffID(ctx); !ok || v != "staff-1" {
		t.Errorf("GetStaffID = %q, %v; want staff-1, true", v, ok)
	}
	if v, ok := GetSchoolID(ctx); !ok || v != "school-1" {
		t.Errorf("GetSchoolID = %q, %v; want school-1, true", v, ok)
	}
	if v, ok := GetRole(ctx); !ok || v != "admin" {
		t.Errorf("GetRole = %q, %v; want admin, true", v, ok)
	}
}

func TestIdentityMissing(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetStaffID(ctx); ok {
		t.Error("GetStaffID on empty context should return false")
	}
	if _, ok := GetSchoolID(ctx); ok {
		t.Error("GetSchoolID on empty context should return false")
	}
	if _, ok := GetRole(ctx); ok {
		t.Error("GetRole on empty context should return false")
	}
}

func TestClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"x-forwarded-for single", "10.0.0.1", "", "192.168.1.1:1234", "10.0.0.1"},
		{"x-forwarded-for chain", "10.0.0.1, 10.0.0.2", "", "192.168.1.1:1234", "10.0.0.1"},
		{"x-real-ip", "", "10.0.0.3", "192.168.1.1:1234", "10.0.0.3"},
		{"remote addr", "", "", "192.168.1.1:1234", "192.168.1.1"},
		{"forwarded wins over real-ip", "10.0.0.1", "10.0.0.3", "192.168.1.1:1234", "10.0.0.1"},
		{"remote addr no port", "", "", "192.168.1.1", "192.168.1.1"},
		{"nothing", "", "", "", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClientIPFromContext(t *testing.T) {
	if got := ClientIPFromContext(context.Background()); got != "unknown" {
		t.Errorf("ClientIPFromContext on empty context = %q, want unknown", got)
	}
	ctx := WithClientIP(context.Background(), "10.0.0.9")
	if got := ClientIPFromContext(ctx); got != "10.0.0.9" {
		t.Errorf("ClientIPFromContext = %q, want 10.0.0.9", got)
	}
}
