package query

import (
	"context"
	"sync"

	"github.com/polyrabbit/coin-dashboard/fetch"
	"github.com/polyrabbit/coin-dashboard/market"
	"github.com/sirupsen/logrus"
)

// Session binds one set of Params to a fetch.Controller for the lifetime of a view.
type Session struct {
	base string
	ctrl *fetch.Controller

	mu     sync.Mutex
	params Params
}

// Snapshot is everything a view needs to draw itself.
type Snapshot struct {
	Params Params
	State  fetch.State
	// Coins is State.Coins after filter and sort, it's recomputed for every snapshot
	Coins []market.Coin
}

func NewSession(base string, params Params, ctrl *fetch.Controller) *Session {
	return &Session{base: base, params: params, ctrl: ctrl}
}

func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *Session) URL() string {
	return s.Params().URL(s.base)
}

// Start issues the first request for the current parameters.
func (s *Session) Start(ctx context.Context) <-chan fetch.State {
	return s.Reload(ctx)
}

// Reload re-issues the current request even though the URL did not change.
func (s *Session) Reload(ctx context.Context) <-chan fetch.State {
	rawURL := s.URL()
	logrus.Debugf("Fetching %s", rawURL)
	return s.ctrl.Invoke(ctx, rawURL)
}

// SetLimit returns the pending request, or nil if the URL stayed the same.
func (s *Session) SetLimit(ctx context.Context, limit int) <-chan fetch.State {
	s.mu.Lock()
	s.params.Limit = limit
	s.mu.Unlock()
	return s.refetch(ctx)
}

// SetSortKey returns the pending request, or nil if the URL stayed the same.
func (s *Session) SetSortKey(ctx context.Context, key market.SortKey) <-chan fetch.State {
	s.mu.Lock()
	s.params.Sort = key
	s.mu.Unlock()
	return s.refetch(ctx)
}

func (s *Session) SetFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Filter = filter
}

func (s *Session) refetch(ctx context.Context) <-chan fetch.State {
	rawURL := s.URL()
	doneCh, started := s.ctrl.Watch(ctx, rawURL)
	if !started {
		return nil
	}
	logrus.Debugf("Parameters changed, fetching %s", rawURL)
	return doneCh
}

func (s *Session) Snapshot() Snapshot {
	params := s.Params()
	state := s.ctrl.State()
	return Snapshot{
		Params: params,
		State:  state,
		Coins:  market.Derive(state.Coins, params.Filter, params.Sort),
	}
}
