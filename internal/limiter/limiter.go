// Package limiter implements a fixed-window request quota shared
// across all server instances through a process-external counter
// store. Each client identity receives a window of WindowSeconds
// length admitting at most Capacity requests; the window boundary is
// established by the first request and the whole window resets when
// its TTL elapses.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/hbomb79/Syphon/pkg/logger"
)

var log = logger.Get("Limiter")

type (
	Config struct {
		WindowSeconds int  `yaml:"window_seconds" env:"RATE_LIMIT_WINDOW_SECONDS" env-default:"60"`
		Capacity      int  `yaml:"capacity" env:"RATE_LIMIT_CAPACITY" env-default:"20"`
		FailOpen      bool `yaml:"fail_open" env:"RATE_LIMIT_FAIL_OPEN" env-default:"true"`
	}

	// Decision is the outcome of an admission check. RetryAfter is
	// only meaningful for rejections and reports how long the caller
	// must wait for the current window to expire.
	Decision struct {
		Allowed    bool
		RetryAfter time.Duration
	}

	Limiter struct {
		config Config
		store  QuotaStore
	}
)

func New(config Config, store QuotaStore) *Limiter {
	return &Limiter{config: config, store: store}
}

// Admit checks whether the given client identity may proceed, counting
// the check against the identity's current window.
//
// The increment and the conditional expiry are two separate store
// operations. Concurrent first-requests inside one window can both
// observe a post-increment value of 1 and re-arm the expiry; this is
// benign as the TTL is reset to the same window length, never extended
// beyond it, so no distributed locking is warranted.
//
// Store failures admit the request when FailOpen is set: availability
// of the proxy is preferred over strict quota enforcement while the
// shared counter service is down.
func (limiter *Limiter) Admit(ctx context.Context, identity string) Decision {
	key := fmt.Sprintf("rate:%s", identity)

	count, err := limiter.store.Increment(ctx, key)
	if err != nil {
		return limiter.storeFailure(err)
	}

	if count == 1 {
		window := time.Duration(limiter.config.WindowSeconds) * time.Second
		if err := limiter.store.Expire(ctx, key, window); err != nil {
			return limiter.storeFailure(err)
		}
	}

	if count > int64(limiter.config.Capacity) {
		retryAfter, err := limiter.store.TTL(ctx, key)
		if err != nil {
			return limiter.storeFailure(err)
		}

		log.Emit(logger.VERBOSE, "Rejected %s (%d requests in current window, capacity %d)\n", identity, count, limiter.config.Capacity)
		return Decision{Allowed: false, RetryAfter: retryAfter}
	}

	return Decision{Allowed: true}
}

func (limiter *Limiter) storeFailure(err error) Decision {
	if limiter.config.FailOpen {
		log.Emit(logger.WARNING, "Quota store unavailable (%s), failing open\n", err.Error())
		return Decision{Allowed: true}
	}

	log.Emit(logger.ERROR, "Quota store unavailable (%s), failing closed\n", err.Error())
	return Decision{Allowed: false}
}
