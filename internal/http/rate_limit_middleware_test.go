package httpx

import (
	"testing"
	"time"
)

func TestMemoryRateLimiterEnforcesLimit(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if d := rl.Allow("user:a", 3, time.Minute); !d.allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if d := rl.Allow("user:a", 3, time.Minute); d.allowed {
		t.Fatal("fourth request should be denied")
	}
	// a different key has its own window
	if d := rl.Allow("user:b", 3, time.Minute); !d.allowed {
		t.Fatal("independent key should be allowed")
	}
}

func TestMemoryRateLimiterResetsAfterWindow(t *testing.T) {
	rl := &memoryRateLimiter{entries: make(map[string]rateState), stopCh: make(chan struct{})}
	defer rl.Close()

	if d := rl.Allow("user:a", 1, time.Millisecond); !d.allowed {
		t.Fatal("first request should be allowed")
	}
	if d := rl.Allow("user:a", 1, time.Millisecond); d.allowed {
		t.Fatal("second request inside the window should be denied")
	}
	time.Sleep(5 * time.Millisecond)
	if d := rl.Allow("user:a", 1, time.Millisecond); !d.allowed {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestMemoryRateLimiterCleanupDropsExpiredEntries(t *testing.T) {
	rl := &memoryRateLimiter{entries: make(map[string]rateState), stopCh: make(chan struct{})}
	defer rl.Close()

	rl.Allow("user:a", 5, time.Millisecond)
	rl.Allow("user:b", 5, time.Hour)
	rl.cleanup(time.Now().Add(time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.entries["user:a"]; ok {
		t.Fatal("expired entry should be swept")
	}
	if _, ok := rl.entries["user:b"]; !ok {
		t.Fatal("live entry should survive the sweep")
	}
}

func TestRateMetricKeyStripsIdentifier(t *testing.T) {
	cases := map[string]string{
		"user:admin": "user",
		"ip:1.2.3.4": "ip",
		"":           "unknown",
		"plain":      "plain",
	}
	for in, want := range cases {
		if got := rateMetricKey(in); got != want {
			t.Fatalf("rateMetricKey(%q) = %q, want %q", in, got, want)
		}
	}
}
