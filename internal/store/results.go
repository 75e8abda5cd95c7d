package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"finfun/internal/sessions"
)

const schema = `
CREATE TABLE IF NOT EXISTS finfun_results (
	id                   BIGSERIAL PRIMARY KEY,
	session_id           TEXT        NOT NULL,
	player_name          TEXT        NOT NULL,
	end_reason           TEXT        NOT NULL,
	final_balance_micros BIGINT      NOT NULL,
	ended_at             TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Results persists finished games in Postgres and serves the leaderboard.
type Results struct {
	pool *pgxpool.Pool
}

func Connect(ctx context.Context, databaseURL string) (*Results, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Results{pool: pool}, nil
}

func (r *Results) Close() {
	r.pool.Close()
}

func (r *Results) SaveResult(ctx context.Context, res sessions.Result) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO finfun_results (session_id, player_name, end_reason, final_balance_micros, ended_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		res.SessionID, res.PlayerName, string(res.Reason), res.FinalBalanceMicros, res.EndedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// Row is one leaderboard line, ranked by final balance.
type Row struct {
	Rank               int       `json:"rank"`
	PlayerName         string    `json:"player_name"`
	EndReason          string    `json:"end_reason"`
	FinalBalanceMicros int64     `json:"final_balance_micros"`
	EndedAt            time.Time `json:"ended_at"`
}

func (r *Results) Leaderboard(ctx context.Context, limit int) ([]Row, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT player_name, end_reason, final_balance_micros, ended_at
		 FROM finfun_results
		 ORDER BY final_balance_micros DESC, ended_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.PlayerName, &row.EndReason, &row.FinalBalanceMicros, &row.EndedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		row.Rank = len(out) + 1
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return out, nil
}
