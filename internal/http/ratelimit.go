package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// Write-endpoint limits. Reads are exempt because the register UI polls
// the daily list; 60 writes a minute is far above what one shop produces.
const (
	writeLimitPerWindow = 60
	writeWindow         = time.Minute
	staleClientAge      = 10 * time.Minute
)

// rateLimiter tracks fixed-window request counts per client IP.
type rateLimiter struct {
	mu           sync.Mutex
	windows      map[string]*clientWindow
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientWindow struct {
	start    time.Time
	lastSeen time.Time
	count    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		windows:     make(map[string]*clientWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.runCleanup()
	return rl
}

func (rl *rateLimiter) runCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStale(time.Now())
		case <-rl.stopCleanup:
			return
		}
	}
}

// dropStale removes windows for clients that have gone quiet.
func (rl *rateLimiter) dropStale(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-staleClientAge)
	for ip, win := range rl.windows {
		if win.lastSeen.Before(cutoff) {
			delete(rl.windows, ip)
		}
	}
}

// stop shuts down the cleanup goroutine.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether a write from the given IP fits the current window.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	win, ok := rl.windows[clientIP]
	if !ok || now.Sub(win.start) > writeWindow {
		rl.windows[clientIP] = &clientWindow{start: now, lastSeen: now, count: 1}
		return true
	}

	win.count++
	win.lastSeen = now
	if win.count > writeLimitPerWindow {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
