package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokerarena/internal/arena"
	"pokerarena/internal/deck"
	"pokerarena/internal/game"
)

type fakeSource struct {
	state  game.GameState
	events chan arena.Event
}

func (f *fakeSource) Snapshot() game.GameState   { return f.state.Clone() }
func (f *fakeSource) Events() <-chan arena.Event { return f.events }

func newFakeSource(t *testing.T) *fakeSource {
	t.Helper()
	state, err := game.NewGame(game.Config{
		Players: []game.PlayerConfig{
			{ID: "a", Name: "Alice"},
			{ID: "b", Name: "Bob"},
		},
		StartingChips: 1000, SmallBlind: 5, BigBlind: 10,
	})
	require.NoError(t, err)
	state, err = game.StartHand(state, deck.NewRNG(1))
	require.NoError(t, err)
	return &fakeSource{state: state, events: make(chan arena.Event, 8)}
}

func newTestServer(t *testing.T) (*Server, *fakeSource, *httptest.Server) {
	t.Helper()
	source := newFakeSource(t)
	s := New("", source, log.NewWithOptions(io.Discard, log.Options{}))
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, source, ts
}

func TestHealthEndpoint(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestStateEndpoint(t *testing.T) {
	_, source, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state game.GameState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))

	assert.Equal(t, source.state.ID, state.ID)
	assert.Equal(t, game.Preflop, state.Phase)
	require.Len(t, state.Players, 2)
	assert.Equal(t, "Alice", state.Players[0].Name)
}

func TestWebSocketStreamsEvents(t *testing.T) {
	s, source, ts := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.broadcastLoop(ctx)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// First message is the current state.
	var initial wireEvent
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, "state", initial.Type)
	assert.Equal(t, source.state.ID, initial.State.ID)

	// A published event reaches the spectator.
	source.events <- arena.Event{Type: arena.EventHandStarted, State: source.state.Clone()}

	var event wireEvent
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "hand_started", event.Type)
	assert.Equal(t, source.state.ID, event.State.ID)
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	source := newFakeSource(t)
	s := New("127.0.0.1:0", source, log.NewWithOptions(io.Discard, log.Options{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
