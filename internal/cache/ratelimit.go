package cache

import (
	"context"
	"sync"
	"time"
)

// Decision est le résultat d'une tentative soumise au limiteur
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter autorise au plus N tentatives par clé sur une fenêtre glissante
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// MemoryLimiter garde en mémoire les horodatages des tentatives acceptées.
// Les entrées expirées sont purgées à chaque appel pour la clé concernée.
type MemoryLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	attempts map[string][]time.Time
	calls    int
}

// pruneEvery : fréquence (en appels) de la purge des clés inactives
const pruneEvery = 256

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	max, window = sanitize(max, window)
	return &MemoryLimiter{
		max:      max,
		window:   window,
		now:      time.Now,
		attempts: make(map[string][]time.Time),
	}
}

// WithClock remplace l'horloge (tests)
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	l.calls++
	if l.calls%pruneEvery == 0 {
		l.pruneAll(cutoff)
	}

	kept := l.attempts[key][:0]
	for _, ts := range l.attempts[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		l.attempts[key] = kept
		return Decision{Allowed: false, RetryAfter: kept[0].Add(l.window).Sub(now)}, nil
	}

	l.attempts[key] = append(kept, now)
	return Decision{Allowed: true, Remaining: l.max - len(kept) - 1}, nil
}

func (l *MemoryLimiter) pruneAll(cutoff time.Time) {
	for key, list := range l.attempts {
		if len(list) == 0 || !list[len(list)-1].After(cutoff) {
			delete(l.attempts, key)
		}
	}
}

// Reset oublie toutes les tentatives
func (l *MemoryLimiter) Reset() {
	l.mu.Lock()
	l.attempts = make(map[string][]time.Time)
	l.mu.Unlock()
}

func sanitize(max int, window time.Duration) (int, time.Duration) {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return max, window
}
