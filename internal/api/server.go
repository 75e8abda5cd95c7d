package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finfun/internal/config"
	"finfun/internal/learn"
	"finfun/internal/sessions"
	"finfun/internal/sim"
	"finfun/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
)

// ResultsStore is the persistence surface the server needs; the Postgres
// implementation lives in internal/store.
type ResultsStore interface {
	SaveResult(ctx context.Context, res sessions.Result) error
	Leaderboard(ctx context.Context, limit int) ([]store.Row, error)
}

type Server struct {
	cfg      config.APIConfig
	log      *slog.Logger
	registry *sessions.Registry
	course   *learn.Course
	results  ResultsStore
	mux      *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, registry *sessions.Registry, course *learn.Course, results ResultsStore) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		registry: registry,
		course:   course,
		results:  results,
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/sessions/{id}/transactions", s.handleTransactions)
		r.Post("/sessions/{id}/pause", s.handlePause)
		r.Post("/sessions/{id}/resume", s.handleResume)

		r.Post("/sessions/{id}/insurance", s.handlePurchaseInsurance)
		r.Delete("/sessions/{id}/insurance", s.handleCancelInsurance)
		r.Post("/sessions/{id}/deposits", s.handlePurchaseDeposit)
		r.Post("/sessions/{id}/deposits/break", s.handleBreakDeposit)
		r.Post("/sessions/{id}/stocks/{symbol}/buy", s.handleBuyStock)
		r.Post("/sessions/{id}/stocks/{symbol}/sell", s.handleSellStock)

		r.Get("/lessons", s.handleLessons)
		r.Post("/lessons/{title}/complete", s.handleCompleteLesson)

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Post("/results", s.handleSubmitResult)
	})
}

type createSessionRequest struct {
	Name            string    `json:"name"`
	SalaryThousands int       `json:"salary_thousands"`
	MonthlyExpenses float64   `json:"monthly_expenses"`
	CareerGrowthPct int       `json:"career_growth_pct"`
	DependentAges   []float64 `json:"dependent_ages"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	profile := sim.Profile{
		Name:                   strings.TrimSpace(req.Name),
		MonthlySalaryThousands: req.SalaryThousands,
		MonthlyExpensesMicros:  sim.DollarsToMicros(req.MonthlyExpenses),
		CareerGrowthPct:        req.CareerGrowthPct,
	}
	for _, age := range req.DependentAges {
		profile.Dependents = append(profile.Dependents, sim.Dependent{Age: age})
	}

	id, snap, err := s.registry.Create(profile)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": id,
		"snapshot":   snap,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": session.Transactions()})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Pause(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paused": true})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Resume(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paused": false})
}

func (s *Server) handlePurchaseInsurance(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req struct {
		Years int `json:"years"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	policy, err := session.PurchaseInsurance(req.Years)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, policy)
}

func (s *Server) handleCancelInsurance(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := session.CancelInsurance(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cancelled": true})
}

func (s *Server) handlePurchaseDeposit(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req struct {
		Principal float64 `json:"principal"`
		Years     int     `json:"years"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	txn, err := session.PurchaseDeposit(sim.DollarsToMicros(req.Principal), req.Years)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleBreakDeposit(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	txn, err := session.BreakDeposit()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) handleBuyStock(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req struct {
		Shares int64 `json:"shares"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	txn, err := session.BuyStock(chi.URLParam(r, "symbol"), req.Shares)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleSellStock(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Session(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	txn, err := session.SellStock(chi.URLParam(r, "symbol"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) handleLessons(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"lessons":   s.course.Lessons(),
		"completed": s.course.CompletedCount(),
	})
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lesson title")
		return
	}
	var req struct {
		Answers []int `json:"answers"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	correct, total, err := s.course.Complete(title, req.Answers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"correct":   correct,
		"total":     total,
		"completed": correct == total,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.results.Leaderboard(r.Context(), s.cfg.LeaderboardLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
}

type submitResultRequest struct {
	SessionID          string `json:"session_id"`
	PlayerName         string `json:"player_name"`
	EndReason          string `json:"end_reason"`
	FinalBalanceMicros int64  `json:"final_balance_micros"`
}

// handleSubmitResult records a game played offline through the CLI.
func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	var req submitResultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		writeError(w, http.StatusBadRequest, "player_name is required")
		return
	}
	reason := sim.EndReason(req.EndReason)
	if reason != sim.EndReasonTime && reason != sim.EndReasonBankruptcy {
		writeError(w, http.StatusBadRequest, "end_reason must be time or bankruptcy")
		return
	}
	err := s.results.SaveResult(r.Context(), sessions.Result{
		SessionID:          req.SessionID,
		PlayerName:         strings.TrimSpace(req.PlayerName),
		Reason:             reason,
		FinalBalanceMicros: req.FinalBalanceMicros,
		EndedAt:            time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"saved": true})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessions.ErrNotFound), errors.Is(err, learn.ErrLessonNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sim.ErrUnknownSymbol):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sim.ErrInsuranceActive), errors.Is(err, sim.ErrDepositActive), errors.Is(err, sim.ErrHoldingActive):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sim.ErrSessionEnded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sim.ErrNoInsurance), errors.Is(err, sim.ErrNoDeposit), errors.Is(err, sim.ErrNoHolding):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sim.ErrInvalidYears), errors.Is(err, sim.ErrInvalidShares),
		errors.Is(err, sim.ErrInvalidPrincipal), errors.Is(err, sim.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
