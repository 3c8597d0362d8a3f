package service

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/google/uuid"
)

// CardTerminal models the payment terminal contract: an authorization
// wait followed by a reference for the recorded payment.
type CardTerminal interface {
	Authorize(ctx context.Context, amount money.Money) (string, error)
}

// simulatedTerminal is a demo-only terminal. Authorization takes a
// randomized bounded delay and always succeeds; no decline or timeout
// outcome is modeled.
type simulatedTerminal struct {
	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulatedTerminal creates a card terminal simulation with the
// given authorization delay bounds.
func NewSimulatedTerminal(minDelay, maxDelay time.Duration) CardTerminal {
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &simulatedTerminal{
		minDelay: minDelay,
		maxDelay: maxDelay,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (t *simulatedTerminal) Authorize(ctx context.Context, amount money.Money) (string, error) {
	delay := t.minDelay
	if span := t.maxDelay - t.minDelay; span > 0 {
		t.mu.Lock()
		delay += time.Duration(t.rnd.Int63n(int64(span)))
		t.mu.Unlock()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(delay):
	}

	ref := "AUTH-" + strings.ToUpper(uuid.New().String()[:8])
	return ref, nil
}
