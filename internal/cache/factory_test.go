package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		cfg         Config
		wantBackend string
		wantErr     bool
	}{
		{"memory by default", Config{TTL: time.Minute}, BackendMemory, false},
		{"redis when url set", Config{RedisURL: "redis://" + mr.Addr()}, BackendRedis, false},
		{"unreachable redis fails", Config{RedisURL: "redis://127.0.0.1:1"}, "", true},
		{"unreachable redis falls back", Config{RedisURL: "redis://127.0.0.1:1", Fallback: true}, BackendMemory, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					_ = c.Close()
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer func() { _ = c.Close() }()

			sp, ok := c.(StatsProvider)
			if !ok {
				t.Fatal("cache does not provide stats")
			}
			if got := sp.Stats().Backend; got != tt.wantBackend {
				t.Errorf("backend = %q, want %q", got, tt.wantBackend)
			}
		})
	}
}
