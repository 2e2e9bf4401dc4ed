package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"insuria/internal/app"
	"insuria/internal/ratelimit"
	"insuria/internal/util"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	RedisAddr     string
	RedisPassword string

	ChatRateLimitPerMinute     int
	AnalysisRateLimitPerMinute int

	MaxUploadBytes int64
	TrustedProxies *util.TrustedProxies
}

// Server exposes the HTTP API.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	maxUploadBytes int64
	trustedProxies *util.TrustedProxies
	chatLimiter    *ratelimit.FixedWindowLimiter
	scanLimiter    *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured. Rate limiting is
// active only when a redis address is supplied.
func New(cfg Config) (*Server, error) {
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		maxUploadBytes: normalizeMaxBytes(cfg.MaxUploadBytes),
		trustedProxies: cfg.TrustedProxies,
	}
	if cfg.RedisAddr != "" {
		chatLimit := cfg.ChatRateLimitPerMinute
		if chatLimit <= 0 {
			chatLimit = 30
		}
		scanLimit := cfg.AnalysisRateLimitPerMinute
		if scanLimit <= 0 {
			scanLimit = 10
		}
		newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
			prefix := "insuria:ratelimit:" + name
			limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, time.Minute)
			if err != nil {
				return nil, fmt.Errorf("init %s limiter: %w", name, err)
			}
			return limiter, nil
		}
		var err error
		if s.chatLimiter, err = newLimiter("chat", chatLimit); err != nil {
			return nil, err
		}
		if s.scanLimiter, err = newLimiter("analysis", scanLimit); err != nil {
			return nil, err
		}
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("api", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.Handle("/api/auth/logout", s.authenticated(s.handleLogout))

	s.mux.Handle("/api/claims", s.authenticated(s.handleClaims))
	s.mux.Handle("/api/claims/active", s.authenticated(s.handleActiveClaim))

	s.mux.Handle("/api/documents", s.authenticated(s.handleDocuments))
	s.mux.Handle("/api/documents/", s.authenticated(s.handleDocumentByID))

	s.mux.Handle("/api/assessment", s.authenticated(s.handleAssessment))
	s.mux.Handle("/api/assessment/confirm", s.authenticated(s.handleAssessmentConfirm))

	s.mux.Handle("/api/advisor/messages", s.authenticated(s.handleAdvisorMessages))
	s.mux.Handle("/api/advisor/language", s.authenticated(s.handleAdvisorLanguage))
	s.mux.Handle("/api/advisor/languages", s.authenticated(s.handleAdvisorLanguages))
	s.mux.Handle("/api/advisor/speak", s.authenticated(s.handleAdvisorSpeak))
	s.mux.Handle("/api/advisor/policy", s.authenticated(s.handleAdvisorPolicy))

	s.mux.Handle("/api/insurers", s.authenticated(s.handleInsurers))
	s.mux.Handle("/api/payments/plans", s.authenticated(s.handlePaymentPlans))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionHandler receives the verified session token alongside the request.
type sessionHandler func(http.ResponseWriter, *http.Request, string)

func (s *Server) authenticated(next sessionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.audit(r, "api.authorize", "fail", "reason", "missing_token")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		valid, err := s.app.ValidSession(token)
		if err != nil {
			s.audit(r, "api.authorize", "fail", "reason", "session_check_failed")
			writeError(w, http.StatusServiceUnavailable, "session check unavailable")
			return
		}
		if !valid {
			s.audit(r, "api.authorize", "fail", "reason", "invalid_token")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, token)
	})
}

// auth

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	token, err := s.app.Login()
	if err != nil {
		s.audit(r, "api.login", "fail", "reason", err.Error())
		writeError(w, http.StatusServiceUnavailable, "login unavailable")
		return
	}
	s.audit(r, "api.login", "success")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, token string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := s.app.Logout(token); err != nil {
		s.audit(r, "api.logout", "fail", "reason", err.Error())
		writeError(w, http.StatusServiceUnavailable, "logout unavailable")
		return
	}
	s.audit(r, "api.logout", "success")
	w.WriteHeader(http.StatusNoContent)
}

// claims

func (s *Server) handleClaims(w http.ResponseWriter, r *http.Request, _ string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	claims := s.app.Claims()
	writeJSON(w, http.StatusOK, map[string]any{
		"items": claims,
		"count": len(claims),
	})
}

func (s *Server) handleActiveClaim(w http.ResponseWriter, r *http.Request, _ string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	claim, ok := s.app.ActiveClaim()
	if !ok {
		writeError(w, http.StatusNotFound, "no claims yet")
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

// documents

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request, _ string) {
	switch r.Method {
	case http.MethodGet:
		docs := s.app.Documents()
		writeJSON(w, http.StatusOK, map[string]any{
			"items": docs,
			"count": len(docs),
		})
	case http.MethodPost:
		upload, ok := s.readUpload(w, r)
		if !ok {
			return
		}
		doc, err := s.app.AddDocument(r.Context(), upload)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not store document")
			return
		}
		writeJSON(w, http.StatusCreated, doc)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleDocumentByID(w http.ResponseWriter, r *http.Request, _ string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	idPart, action, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	switch action {
	case "export":
		filename, content, err := s.app.ExportDocument(id)
		if err != nil {
			writeDocumentError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, content)
	case "download":
		url, err := s.app.DocumentDownloadURL(r.Context(), id)
		if err != nil {
			writeDocumentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// assessment

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request, token string) {
	switch r.Method {
	case http.MethodGet:
		payload := map[string]any{"phase": s.app.AssessmentPhase(token)}
		if report, ok := s.app.AssessmentReport(token); ok {
			payload["report"] = report
		}
		writeJSON(w, http.StatusOK, payload)
	case http.MethodPost:
		if !s.allowRate(w, r, s.scanLimiter, token, "too many analysis requests") {
			s.audit(r, "api.assessment.submit", "rate_limited")
			return
		}
		upload, ok := s.readUpload(w, r)
		if !ok {
			return
		}
		report, err := s.app.SubmitDamagePhoto(r.Context(), token, upload.Data, upload.MediaType)
		if err != nil {
			writeAssessmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	case http.MethodDelete:
		s.app.ResetAssessment(token)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAssessmentConfirm(w http.ResponseWriter, r *http.Request, token string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	claim, err := s.app.ConfirmAssessment(token)
	if err != nil {
		if errors.Is(err, app.ErrNoReport) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not file claim")
		return
	}
	writeJSON(w, http.StatusCreated, claim)
}

// advisor

func (s *Server) handleAdvisorMessages(w http.ResponseWriter, r *http.Request, token string) {
	switch r.Method {
	case http.MethodGet:
		turns := s.app.Turns(token)
		writeJSON(w, http.StatusOK, map[string]any{
			"items":     turns,
			"count":     len(turns),
			"composing": s.app.Composing(token),
		})
	case http.MethodPost:
		if !s.allowRate(w, r, s.chatLimiter, token, "too many messages") {
			s.audit(r, "api.advisor.send", "rate_limited")
			return
		}
		var req messageRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		added, err := s.app.SendMessage(r.Context(), token, req.Text)
		if err != nil {
			if errors.Is(err, app.ErrEmptyMessage) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "could not send message")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": added})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAdvisorLanguage(w http.ResponseWriter, r *http.Request, token string) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.app.SessionLanguage(token))
	case http.MethodPut:
		var req languageRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		lang, err := s.app.SelectLanguage(token, req.Code)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, lang)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAdvisorLanguages(w http.ResponseWriter, r *http.Request, _ string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	langs := s.app.Languages()
	writeJSON(w, http.StatusOK, map[string]any{
		"items": langs,
		"count": len(langs),
	})
}

func (s *Server) handleAdvisorSpeak(w http.ResponseWriter, r *http.Request, token string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req messageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	speech, err := s.app.Speak(r.Context(), token, req.Text)
	if err != nil {
		if errors.Is(err, app.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not synthesize speech")
		return
	}
	writeJSON(w, http.StatusOK, speech)
}

func (s *Server) handleAdvisorPolicy(w http.ResponseWriter, r *http.Request, token string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	doc, turn, err := s.app.UploadPolicy(r.Context(), token, upload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not store document")
		return
	}
	payload := map[string]any{"document": doc}
	if turn != nil {
		payload["turn"] = turn
	}
	writeJSON(w, http.StatusCreated, payload)
}

// catalog

func (s *Server) handleInsurers(w http.ResponseWriter, r *http.Request, _ string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	list := app.Insurers(r.URL.Query().Get("sort"))
	writeJSON(w, http.StatusOK, map[string]any{
		"items": list,
		"count": len(list),
	})
}

func (s *Server) handlePaymentPlans(w http.ResponseWriter, r *http.Request, _ string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	plans := app.PaymentPlans()
	writeJSON(w, http.StatusOK, map[string]any{
		"items": plans,
		"count": len(plans),
	})
}

// helpers

// readUpload pulls the multipart "file" field with its media type. The
// body is capped before parsing.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (app.Upload, bool) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return app.Upload{}, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return app.Upload{}, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read file")
		return app.Upload{}, false
	}
	return app.Upload{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Data:      data,
	}, true
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, key, msg string) bool {
	if limiter == nil {
		return true
	}
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r, s.trustedProxies),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func writeAssessmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrNotImage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrAnalysisInProgress):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadGateway, "damage analysis unavailable")
	}
}

func writeDocumentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrNoObjectStore):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "document unavailable")
	}
}

type messageRequest struct {
	Text string `json:"text"`
}

type languageRequest struct {
	Code string `json:"code"`
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func normalizeMaxBytes(value int64) int64 {
	if value <= 0 {
		return 20 * 1024 * 1024
	}
	return value
}
