package payment_processor

import (
	rclient "payment-dispatch/internal/redis"
	"payment-dispatch/internal/store"
	"time"
)

const probeLockName = "health-probe-lock"

type mutexProvider interface {
	Mutex(name string, ttl time.Duration) *rclient.Mutex
}

// ProbeLocker returns a lock shared by every instance on the same store, or
// nil when the store has no distributed locking. The lock is never released:
// it expires just before the next tick so one instance probes per interval.
func ProbeLocker(s store.Store, interval time.Duration) Locker {
	mp, ok := s.(mutexProvider)
	if !ok {
		return nil
	}
	return mp.Mutex(probeLockName, interval*9/10)
}
