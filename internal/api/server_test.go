package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"finfun/internal/config"
	"finfun/internal/learn"
	"finfun/internal/sessions"
	"finfun/internal/sim"
	"finfun/internal/store"
)

type stubStore struct {
	saved []sessions.Result
	rows  []store.Row
}

func (s *stubStore) SaveResult(_ context.Context, res sessions.Result) error {
	s.saved = append(s.saved, res)
	return nil
}

func (s *stubStore) Leaderboard(_ context.Context, _ int) ([]store.Row, error) {
	return s.rows, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubStore) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := config.APIConfig{LeaderboardLimit: 10}
	simCfg := sim.DefaultConfig()
	simCfg.TickInterval = time.Hour // no real-time ticks during tests
	stub := &stubStore{}
	registry := sessions.NewRegistry(simCfg, nil, stub)
	t.Cleanup(registry.Stop)

	srv := httptest.NewServer(New(cfg, nil, registry, learn.NewCourse(), stub).Handler())
	t.Cleanup(srv.Close)
	return srv, stub
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, out := doJSON(t, http.MethodPost, srv.URL+"/v1/sessions", map[string]any{
		"name":              "Tester",
		"salary_thousands":  50,
		"monthly_expenses":  1000,
		"career_growth_pct": 5,
		"dependent_ages":    []float64{2},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := out["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, out := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["ok"])
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	resp, out := doJSON(t, http.MethodGet, srv.URL+"/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, out["ended"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/sessions/"+id+"/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/pause", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["paused"])

	resp, out = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/resume", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, out["paused"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/sessions/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateSessionRejectsInvalidProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/sessions", map[string]any{
		"name": "", "salary_thousands": 0,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInsuranceEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	resp, out := doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/insurance", map[string]any{"years": 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotZero(t, out["monthly_premium_micros"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/insurance", map[string]any{"years": 5})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/v1/sessions/"+id+"/insurance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/v1/sessions/"+id+"/insurance", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDepositEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	resp, out := doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/deposits", map[string]any{
		"principal": 10000, "years": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "debit", out["direction"])

	resp, out = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/deposits/break", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "debit", out["direction"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/deposits/break", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStockEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	resp, out := doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/stocks/NOVATK/buy", map[string]any{"shares": 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "debit", out["direction"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/stocks/NOVATK/buy", map[string]any{"shares": 1})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, out = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/stocks/NOVATK/sell", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "credit", out["direction"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+id+"/stocks/NOPE/buy", map[string]any{"shares": 1})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLessonEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, out := doJSON(t, http.MethodGet, srv.URL+"/v1/lessons", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lessons, ok := out["lessons"].([]any)
	require.True(t, ok)
	require.Len(t, lessons, 4)

	resp, out = doJSON(t, http.MethodPost, srv.URL+"/v1/lessons/Fixed%20Deposits/complete", map[string]any{
		"answers": []int{0, 1},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["completed"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/lessons/Nope/complete", map[string]any{"answers": []int{0}})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLeaderboardAndResults(t *testing.T) {
	srv, stub := newTestServer(t)
	stub.rows = []store.Row{{Rank: 1, PlayerName: "Ada", EndReason: "time", FinalBalanceMicros: 42}}

	resp, out := doJSON(t, http.MethodGet, srv.URL+"/v1/leaderboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows, ok := out["leaderboard"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/results", map[string]any{
		"session_id":           "local",
		"player_name":          "Ada",
		"end_reason":           "time",
		"final_balance_micros": 1234,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, stub.saved, 1)
	require.Equal(t, "Ada", stub.saved[0].PlayerName)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/results", map[string]any{
		"player_name": "Ada", "end_reason": "rage-quit",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
