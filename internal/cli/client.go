package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Client talks to a running finfun API. Play is fully offline; only the
// leaderboard and result submission go over the wire.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type LeaderboardRow struct {
	Rank               int    `json:"rank"`
	PlayerName         string `json:"player_name"`
	EndReason          string `json:"end_reason"`
	FinalBalanceMicros int64  `json:"final_balance_micros"`
}

func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	var out struct {
		Leaderboard []LeaderboardRow `json:"leaderboard"`
	}
	if err := c.jsonRequest(ctx, http.MethodGet, "/v1/leaderboard", nil, &out); err != nil {
		return nil, err
	}
	return out.Leaderboard, nil
}

func (c *Client) SubmitResult(ctx context.Context, sessionID, playerName, endReason string, finalBalanceMicros int64) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/results", map[string]any{
		"session_id":           sessionID,
		"player_name":          playerName,
		"end_reason":           endReason,
		"final_balance_micros": finalBalanceMicros,
	}, nil)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
