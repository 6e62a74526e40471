package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{
			name:         "empty allowed hosts returns true",
			host:         "horizon.test",
			allowedHosts: []string{},
			want:         true,
		},
		{
			name:         "exact match with port",
			host:         "horizon.test:8080",
			allowedHosts: []string{"horizon.test:8080"},
			want:         true,
		},
		{
			name:         "host without port matches allowed with port",
			host:         "horizon.test",
			allowedHosts: []string{"horizon.test:8080"},
			want:         true,
		},
		{
			name:         "host with port matches allowed without port",
			host:         "horizon.test:8080",
			allowedHosts: []string{"horizon.test"},
			want:         true,
		},
		{
			name:         "localhost with port",
			host:         "localhost:3000",
			allowedHosts: []string{"localhost"},
			want:         true,
		},
		{
			name:         "IPv6 loopback with port",
			host:         "[::1]:8080",
			allowedHosts: []string{"[::1]:8080"},
			want:         true,
		},
		{
			name:         "IPv6 with port matches allowed without port",
			host:         "[::1]:8080",
			allowedHosts: []string{"::1"},
			want:         true,
		},
		{
			name:         "case insensitive match",
			host:         "Horizon.TEST:8080",
			allowedHosts: []string{"horizon.test"},
			want:         true,
		},
		{
			name:         "whitespace trimmed",
			host:         "  horizon.test:8080  ",
			allowedHosts: []string{"  horizon.test  "},
			want:         true,
		},
		{
			name:         "match second in list",
			host:         "app.horizon.test",
			allowedHosts: []string{"horizon.test", "app.horizon.test"},
			want:         true,
		},
		{
			name:         "no match returns false",
			host:         "evil.test",
			allowedHosts: []string{"horizon.test"},
			want:         false,
		},
		{
			name:         "subdomain mismatch",
			host:         "sub.horizon.test",
			allowedHosts: []string{"horizon.test"},
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsHostAllowed(tt.host, tt.allowedHosts)
			if got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v",
					tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}

func TestHSTS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	HSTS(next).ServeHTTP(rr, req)

	got := rr.Header().Get("Strict-Transport-Security")
	if !strings.Contains(got, "max-age=31536000") {
		t.Errorf("Strict-Transport-Security = %q, want max-age of one year", got)
	}
}

func TestSecureCookies_AddsMissingAttributes(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "secret", Path: "/"})
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
	rr := httptest.NewRecorder()

	SecureCookies(next).ServeHTTP(rr, req)

	cookies := rr.Header()["Set-Cookie"]
	if len(cookies) != 1 {
		t.Fatalf("got %d Set-Cookie headers, want 1", len(cookies))
	}
	for _, attr := range []string{"Secure", "HttpOnly", "SameSite=Strict"} {
		if !strings.Contains(cookies[0], attr) {
			t.Errorf("cookie %q missing %s", cookies[0], attr)
		}
	}
}

func TestSecureCookies_DoesNotDuplicateAttributes(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", SessionCookieName+"=secret; Path=/; HttpOnly; Secure; SameSite=Strict")
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
	rr := httptest.NewRecorder()

	SecureCookies(next).ServeHTTP(rr, req)

	cookie := rr.Header().Get("Set-Cookie")
	if strings.Count(cookie, "Secure") != 1 {
		t.Errorf("cookie %q has duplicated Secure attributes", cookie)
	}
	if strings.Count(cookie, "SameSite") != 1 {
		t.Errorf("cookie %q has duplicated SameSite attributes", cookie)
	}
}
