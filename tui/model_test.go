package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/polyrabbit/coin-dashboard/config"
	"github.com/polyrabbit/coin-dashboard/fetch"
	myhttp "github.com/polyrabbit/coin-dashboard/http"
	"github.com/polyrabbit/coin-dashboard/market"
	"github.com/polyrabbit/coin-dashboard/query"
)

const marketsPayload = `[{"id":"bitcoin","name":"Bitcoin","symbol":"btc","image":"x","current_price":50000,` +
	`"price_change_percentage_24h":2.5,"market_cap":900000000000},` +
	`{"id":"ethereum","name":"Ethereum","symbol":"eth","image":"y","current_price":3000,` +
	`"price_change_percentage_24h":-1.2,"market_cap":360000000000}]`

type testServer struct {
	*httptest.Server
	mu      sync.Mutex
	queries []string
	status  int
}

func newTestServer(status int) *testServer {
	ts := &testServer{status: status}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.queries = append(ts.queries, r.URL.RawQuery)
		ts.mu.Unlock()
		if ts.status != http.StatusOK {
			w.WriteHeader(ts.status)
			return
		}
		w.Write([]byte(marketsPayload))
	}))
	return ts
}

func (ts *testServer) count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.queries)
}

func (ts *testServer) query(i int) string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.queries[i]
}

func newTestModel(t *testing.T, ts *testServer) Model {
	t.Helper()
	ctrl := fetch.New(myhttp.New(&config.Config{Timeout: 5}), fetch.Options{})
	session := query.NewSession(ts.URL+"/markets?vs_currency=usd", query.DefaultParams(), ctrl)
	<-session.Start(context.Background())
	m := New(context.Background(), session, 0)
	// A blinking cursor would make every keystroke wait for its tick
	m.filter.Cursor.SetMode(cursor.CursorStatic)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds msg to the model and runs the returned command when it is a fetch.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	if cmd != nil {
		if fetched, ok := cmd().(fetchedMsg); ok {
			next, _ = next.Update(fetched)
		}
	}
	return next.(Model)
}

func TestModel(t *testing.T) {

	t.Run("renders cards", func(t *testing.T) {
		ts := newTestServer(http.StatusOK)
		defer ts.Close()
		view := newTestModel(t, ts).View()
		for _, want := range []string{"Bitcoin", "Ethereum", "Limit:", "Market Cap (High to Low)"} {
			if !strings.Contains(view, want) {
				t.Fatalf("View is missing %q:\n%s", want, view)
			}
		}
	})

	t.Run("tab changes the limit", func(t *testing.T) {
		ts := newTestServer(http.StatusOK)
		defer ts.Close()
		m := press(t, newTestModel(t, ts), tea.KeyMsg{Type: tea.KeyTab})
		if m.session.Params().Limit != 20 {
			t.Fatalf("Expecting limit 20, got %d", m.session.Params().Limit)
		}
		if ts.count() != 2 || !strings.Contains(ts.query(1), "per_page=20") {
			t.Fatalf("Expecting a second request with per_page=20, got %d requests", ts.count())
		}
	})

	t.Run("s cycles the sort key", func(t *testing.T) {
		ts := newTestServer(http.StatusOK)
		defer ts.Close()
		m := press(t, newTestModel(t, ts), runes("s"))
		if m.session.Params().Sort != market.SortPriceDesc {
			t.Fatalf("Unexpected sort %s", m.session.Params().Sort)
		}
		m = press(t, m, runes("S"))
		m = press(t, m, runes("S"))
		if m.session.Params().Sort != market.SortChangeAsc {
			t.Fatalf("Unexpected sort %s", m.session.Params().Sort)
		}
	})

	t.Run("typing filters without fetching", func(t *testing.T) {
		ts := newTestServer(http.StatusOK)
		defer ts.Close()
		m := press(t, newTestModel(t, ts), runes("/"))
		for _, r := range "ETH" {
			m = press(t, m, runes(string(r)))
		}
		if m.session.Params().Filter != "ETH" {
			t.Fatalf("Unexpected filter %q", m.session.Params().Filter)
		}
		view := m.View()
		if strings.Contains(view, "Bitcoin") || !strings.Contains(view, "Ethereum") {
			t.Fatalf("Filter not applied:\n%s", view)
		}
		// q types into the filter instead of quitting
		m = press(t, m, runes("q"))
		if m.session.Params().Filter != "ETHq" {
			t.Fatalf("Unexpected filter %q", m.session.Params().Filter)
		}
		m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.filter.Focused() {
			t.Fatalf("Esc should leave the filter")
		}
		if ts.count() != 1 {
			t.Fatalf("Filter should not fetch, got %d requests", ts.count())
		}
	})

	t.Run("error replaces the view", func(t *testing.T) {
		ts := newTestServer(http.StatusInternalServerError)
		defer ts.Close()
		view := newTestModel(t, ts).View()
		if !strings.Contains(view, "❌ Failed to fetch data") {
			t.Fatalf("Unexpected view:\n%s", view)
		}
		if strings.Contains(view, "Limit:") {
			t.Fatalf("Error view should not show controls:\n%s", view)
		}
	})

	t.Run("q quits", func(t *testing.T) {
		ts := newTestServer(http.StatusOK)
		defer ts.Close()
		_, cmd := newTestModel(t, ts).Update(runes("q"))
		if cmd == nil {
			t.Fatalf("Expecting quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("Expecting tea.QuitMsg")
		}
	})
}

func TestNextLimit(t *testing.T) {
	cases := map[int]int{5: 10, 10: 20, 100: 5, 7: 10, 500: 5, -1: 5}
	for in, want := range cases {
		if got := nextLimit(in); got != want {
			t.Fatalf("nextLimit(%d): expecting %d, got %d", in, want, got)
		}
	}
}
