package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/dataforte10/saham/internal/models"
	"github.com/dataforte10/saham/internal/services/render"
)

// AnalyzeRequest is the POST /api/analyze request body.
type AnalyzeRequest struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	FollowUp  string `json:"follow_up,omitempty"`
}

// ChatRequest is the POST /api/chat request body.
type ChatRequest struct {
	Message string `json:"message"`
}

// handleAnalyze handles POST /api/analyze. It runs the full pipeline and
// replaces the session with the result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AnalyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	query := models.Query{
		Symbol:    req.Symbol,
		StartDate: start,
		EndDate:   end,
		FollowUp:  req.FollowUp,
	}

	entry, err := s.app.Analysis.SubmitQuery(r.Context(), query)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entry)
}

// handleSession handles GET and DELETE /api/session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entry, err := s.app.Analysis.Current(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entry == nil {
			WriteErrorWithCode(w, http.StatusNotFound, "No active analysis session", "session_empty")
			return
		}
		WriteJSON(w, http.StatusOK, entry)

	case http.MethodDelete:
		if err := s.app.Analysis.Reset(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// handleChat handles POST /api/chat against the current session.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	answer, err := s.app.Analysis.ChatTurn(r.Context(), req.Message)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// FollowUpRequest is the POST /api/session/followup request body.
type FollowUpRequest struct {
	Question string `json:"question"`
}

// handleSessionFollowUp handles POST /api/session/followup: a new follow-up
// question against the current entry's base analysis.
func (s *Server) handleSessionFollowUp(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req FollowUpRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Question == "" {
		WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.app.Analysis.FollowUp(r.Context(), req.Question)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// handleSessionNews handles GET /api/session/news: the fetched items plus the
// generated summary.
func (s *Server) handleSessionNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	entry, err := s.app.Analysis.Current(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		WriteErrorWithCode(w, http.StatusNotFound, "No active analysis session", "session_empty")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  entry.Query.Symbol,
		"items":   entry.Bundle.News,
		"summary": entry.Analysis.NewsSummary,
	})
}

// handleSessionFinancials handles GET /api/session/financials: the statement
// tables plus the quarterly revenue series pulled out for the dashboard.
func (s *Server) handleSessionFinancials(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	entry, err := s.app.Analysis.Current(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		WriteErrorWithCode(w, http.StatusNotFound, "No active analysis session", "session_empty")
		return
	}

	// A symbol without a totalRevenue row simply omits the series
	revenue, _ := entry.Bundle.Statements.IncomeQuarterly.Row("totalRevenue")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":            entry.Query.Symbol,
		"statements":        entry.Bundle.Statements,
		"quarterly_revenue": revenue,
		"ownership":         entry.Bundle.Ownership,
	})
}

// handleSessionChart handles GET /api/session/chart.png with the closing
// price chart for the cached range.
func (s *Server) handleSessionChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	entry, err := s.app.Analysis.Current(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		WriteErrorWithCode(w, http.StatusNotFound, "No active analysis session", "session_empty")
		return
	}

	png, err := render.RenderPriceChart(entry.Query.Symbol, entry.Bundle.Prices)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// writeAnalysisError maps pipeline errors onto HTTP status codes. Data
// provider failures and LLM failures are upstream faults; everything the
// caller got wrong is a 400.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	var unavailable *models.DataUnavailableError
	if errors.As(err, &unavailable) {
		WriteErrorWithCode(w, http.StatusBadGateway, unavailable.Error(), "data_unavailable")
		return
	}

	var failure *models.AnalysisFailureError
	if errors.As(err, &failure) {
		WriteErrorWithCode(w, http.StatusBadGateway, failure.Error(), "analysis_failure")
		return
	}

	var config *models.ConfigurationError
	if errors.As(err, &config) {
		WriteErrorWithCode(w, http.StatusServiceUnavailable, config.Error(), "not_configured")
		return
	}

	WriteError(w, http.StatusBadRequest, err.Error())
}
