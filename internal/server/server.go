// Package server exposes the scheduling operations over HTTP with JSON
// bodies. Sessions are created explicitly and addressed by id; every
// handler resolves its session, runs one serialized operation on it and
// returns either the next state or a structured error.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/julianstephens/weekwise/internal/constants"
	werrors "github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/revision"
	"github.com/julianstephens/weekwise/internal/session"
)

type Server struct {
	sessions *session.Manager
}

func New(sessions *session.Manager) *Server {
	return &Server{sessions: sessions}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.withSession(s.handleGetSession))
	mux.HandleFunc("POST /sessions/{id}/reset", s.withSession(s.handleReset))
	mux.HandleFunc("POST /sessions/{id}/draft", s.withSession(s.handleSubmitDraft))
	mux.HandleFunc("POST /sessions/{id}/answers", s.withSession(s.handleSubmitAnswer))
	mux.HandleFunc("PUT /sessions/{id}/preferences", s.withSession(s.handlePreferences))
	mux.HandleFunc("POST /sessions/{id}/compile", s.withSession(s.handleCompile))
	mux.HandleFunc("GET /sessions/{id}/calendar", s.withSession(s.handleGetCalendar))
	mux.HandleFunc("PUT /sessions/{id}/calendar", s.withSession(s.handleImportCalendar))
	mux.HandleFunc("POST /sessions/{id}/quiz", s.withSession(s.handleQuizResult))
	mux.HandleFunc("POST /sessions/{id}/adjustments", s.withSession(s.handleAdjustment))
	mux.HandleFunc("POST /sessions/{id}/revisions", s.withSession(s.handleRevision))

	return mux
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves the {id} path segment to a live session.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		next(w, r, sess)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": constants.AppName,
		"status":  "ok",
		"version": constants.Version,
	})
}

type sessionInfo struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Version   int    `json:"version"`
}

func info(sess *session.Session) sessionInfo {
	return sessionInfo{
		SessionID: sess.ID,
		State:     string(sess.State()),
		Version:   sess.Version(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, info(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, info(sess))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sess.Reset()
	writeJSON(w, http.StatusOK, info(sess))
}

type draftRequest struct {
	Items []models.ScheduleItem `json:"items"`
}

type draftResponse struct {
	sessionInfo
	Questions   []models.PendingQuestion `json:"questions,omitempty"`
	Calendar    models.WeekCalendar      `json:"calendar,omitempty"`
	Unplaceable []models.ScheduleItem    `json:"unplaceable,omitempty"`
}

// handleSubmitDraft starts resolution. A draft with nothing missing is
// compiled in the same request, so the response carries either the open
// questions or the finished calendar.
func (s *Server) handleSubmitDraft(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req draftRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	questions, err := sess.SubmitDraft(req.Items)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := draftResponse{Questions: questions}
	if len(questions) == 0 {
		cal, unplaceable, err := sess.Compile()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp.Calendar = cal
		resp.Unplaceable = unplaceable
	}
	resp.sessionInfo = info(sess)
	writeJSON(w, http.StatusOK, resp)
}

type answerRequest struct {
	Value string `json:"value"`
}

type answerResponse struct {
	sessionInfo
	Question *models.PendingQuestion `json:"question,omitempty"`
	Ready    bool                    `json:"ready"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	next, err := sess.SubmitAnswer(req.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		sessionInfo: info(sess),
		Question:    next,
		Ready:       next == nil,
	})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var prefs models.Preferences
	if err := decode(r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := sess.CollectPreferences(prefs); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info(sess))
}

type calendarResponse struct {
	sessionInfo
	Calendar    models.WeekCalendar   `json:"calendar"`
	Unplaceable []models.ScheduleItem `json:"unplaceable,omitempty"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	cal, unplaceable, err := sess.Compile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{
		sessionInfo: info(sess),
		Calendar:    cal,
		Unplaceable: unplaceable,
	})
}

func (s *Server) handleGetCalendar(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	cal, ok := sess.Calendar()
	if !ok {
		writeError(w, http.StatusConflict, fmt.Errorf("session has no compiled calendar"))
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{
		sessionInfo: info(sess),
		Calendar:    cal,
		Unplaceable: sess.Unplaceable(),
	})
}

func (s *Server) handleImportCalendar(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var cal models.WeekCalendar
	if err := decode(r, &cal); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := sess.ImportCalendar(cal); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info(sess))
}

func (s *Server) handleQuizResult(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var result models.QuizResult
	if err := decode(r, &result); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	proposal, err := sess.SubmitQuizResult(result)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

type adjustmentRequest struct {
	CourseCode string `json:"course_code"`
	Accept     bool   `json:"accept"`
}

func (s *Server) handleAdjustment(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req adjustmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cal, err := sess.ApplyAdjustment(req.CourseCode, req.Accept)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{
		sessionInfo: info(sess),
		Calendar:    cal,
	})
}

type revisionRequest struct {
	// Exactly one of Intent and Instruction is used; a structured intent
	// always wins over free text.
	Intent      *revision.MutationIntent `json:"intent,omitempty"`
	Instruction string                   `json:"instruction,omitempty"`
}

type revisionResponse struct {
	sessionInfo
	Calendar models.WeekCalendar `json:"calendar"`
	Placed   *models.PlacedItem  `json:"placed,omitempty"`
	Removed  *models.PlacedItem  `json:"removed,omitempty"`
}

func (s *Server) handleRevision(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req revisionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		res revision.Result
		err error
	)
	switch {
	case req.Intent != nil:
		res, err = sess.Revise(*req.Intent)
	case req.Instruction != "":
		res, err = sess.ReviseByInstruction(r.Context(), req.Instruction)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("either intent or instruction is required"))
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, revisionResponse{
		sessionInfo: info(sess),
		Calendar:    res.Calendar,
		Placed:      res.Placed,
		Removed:     res.Removed,
	})
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeDomainError maps the error taxonomy onto HTTP statuses: invalid
// input re-prompts, conflicts preserve the calendar, state errors mean
// the caller must restart the flow.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case werrors.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	case werrors.IsConstraintViolation(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "constraint_violation"})
	case werrors.IsSessionState(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "session_state"})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "internal"})
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	kind := "bad_request"
	if status == http.StatusNotFound {
		kind = "not_found"
	}
	var verr *werrors.ValidationError
	if errors.As(err, &verr) {
		kind = "validation"
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}
