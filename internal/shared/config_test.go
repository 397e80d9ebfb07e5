package shared_test

import (
	"testing"
	"time"

	"hotel_admin/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOTEL_API_BASE_URL", "")
	t.Setenv("SESSION_BACKEND", "")
	c := shared.Load()
	if c.HTTPAddr != ":8080" || c.SessionBackend != "memory" || c.RecentLimit != 5 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.DisplayTZ != time.UTC {
		t.Fatalf("expected UTC display tz, got %v", c.DisplayTZ)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HOTEL_API_BASE_URL", "http://backend:5000/api")
	t.Setenv("HOTEL_API_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_DB", "not-a-number")
	c := shared.Load()
	if c.APIBase != "http://backend:5000/api" || c.APITimeout != 3*time.Second {
		t.Fatalf("unexpected api settings: %+v", c)
	}
	if c.SessionBackend != "redis" || c.RedisDB != 0 {
		t.Fatalf("unexpected redis settings: %+v", c)
	}
}

func TestLoad_UnknownSessionBackendFallsBack(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "etcd")
	if got := shared.Load().SessionBackend; got != "memory" {
		t.Fatalf("backend = %q, want memory", got)
	}
}
