package fetch

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/polyrabbit/coin-dashboard/http"
	"github.com/polyrabbit/coin-dashboard/market"
	"github.com/sirupsen/logrus"
)

type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

type Options struct {
	// OnTransition sees every state change in the order they happen. It is
	// called with the controller locked and must not call back into it.
	OnTransition func(State)
	// ApplyStale lets a superseded request overwrite the state when it
	// finishes last. By default only the newest invocation may complete.
	ApplyStale bool
}

// Controller owns a single request lifecycle: loading, then success or error.
type Controller struct {
	getter Getter
	opts   Options

	mu      sync.Mutex
	state   State
	invoked bool
	seq     uint64
}

func New(getter Getter, opts Options) *Controller {
	return &Controller{
		getter: getter,
		opts:   opts,
		state:  State{Status: Idle, Coins: []market.Coin{}},
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Watch invokes only if rawURL differs from the URL of the previous
// invocation. The returned bool reports whether a request was started.
func (c *Controller) Watch(ctx context.Context, rawURL string) (<-chan State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.invoked && c.state.URL == rawURL {
		return nil, false
	}
	return c.start(ctx, rawURL), true
}

// Invoke starts a request for rawURL regardless of what is in flight.
// The state is Loading when Invoke returns. The channel receives the
// resulting state once and is then closed.
func (c *Controller) Invoke(ctx context.Context, rawURL string) <-chan State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start(ctx, rawURL)
}

// c.mu must be held
func (c *Controller) start(ctx context.Context, rawURL string) <-chan State {
	c.invoked = true
	c.seq++
	seq := c.seq
	c.transition(State{Status: Loading, URL: rawURL, Coins: c.state.Coins})

	doneCh := make(chan State, 1)
	go func() {
		defer close(doneCh)
		start := time.Now()
		body, err := c.getter.Get(ctx, rawURL)
		var coins []market.Coin
		if err == nil {
			coins, err = market.DecodeCoins(body)
		}
		if err != nil {
			logEntry := logrus.WithError(err).WithField("url", rawURL)
			if e, ok := err.(net.Error); ok && e.Timeout() {
				logEntry = logEntry.WithField("elapsed", time.Since(start).String())
			}
			logEntry.Warn("Failed to fetch coin markets")
		}
		doneCh <- c.complete(seq, rawURL, coins, err)
	}()
	return doneCh
}

func (c *Controller) complete(seq uint64, rawURL string, coins []market.Coin, err error) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq && !c.opts.ApplyStale {
		logrus.Debugf("Dropping result of superseded request #%d for %s, latest is #%d", seq, rawURL, c.seq)
		return c.state
	}
	if err != nil {
		c.transition(State{Status: Error, URL: c.state.URL, Coins: c.state.Coins, Failure: classify(err)})
	} else {
		c.transition(State{Status: Success, URL: c.state.URL, Coins: coins})
	}
	return c.state
}

// c.mu must be held
func (c *Controller) transition(next State) {
	c.state = next
	if c.opts.OnTransition != nil {
		c.opts.OnTransition(next)
	}
}

func classify(err error) *Failure {
	if _, ok := errors.Cause(err).(*http.ResponseError); ok {
		return &Failure{Kind: StatusFailure, Message: StatusFailureMessage}
	}
	if errors.Cause(err) == market.ErrMalformedResponse {
		return &Failure{Kind: MalformedResponse, Message: err.Error()}
	}
	return &Failure{Kind: TransportFailure, Message: err.Error()}
}
