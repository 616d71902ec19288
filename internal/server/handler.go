package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/sirupsen/logrus"

	"github.com/duckola/adolfo-portfolio/internal/config"
	"github.com/duckola/adolfo-portfolio/internal/domain"
	"github.com/duckola/adolfo-portfolio/internal/gateway"
	"github.com/duckola/adolfo-portfolio/internal/metrics"
	"github.com/duckola/adolfo-portfolio/internal/usecase"
)

const visitCookie = "portfolio_visits"

// Fallback messages shown instead of the activity widget when upstream data
// is unavailable.
const (
	msgUnavailable = "GitHub activity is unavailable right now. Try again later."
	msgRateLimited = "GitHub activity is rate-limited. Configure a token for higher limits."
	msgNoData      = "No recent commits found."
	msgNeedsToken  = "The contribution calendar requires a configured token."
)

type handler struct {
	cfg        config.Config
	portfolio  *domain.Portfolio
	aggregator *usecase.Aggregator
	logger     *logrus.Logger
	visits     atomic.Int64
}

func newHandler(cfg config.Config, portfolio *domain.Portfolio, aggregator *usecase.Aggregator, logger *logrus.Logger) *handler {
	return &handler{
		cfg:        cfg,
		portfolio:  portfolio,
		aggregator: aggregator,
		logger:     logger,
	}
}

func (h *handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.portfolio.Profile)
}

func (h *handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.portfolio.Projects)
}

func (h *handler) handleCertificates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.portfolio.Certificates)
}

func (h *handler) handleAchievements(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"achievements":  h.portfolio.Achievements,
		"organizations": h.portfolio.Organizations,
		"hackathons":    h.portfolio.Hackathons,
		"fun_facts":     h.portfolio.FunFacts,
	})
}

// handleActivity serves the composite overview feeding the badges, the streak
// counter and the chart. Upstream failures still answer 200 with a status the
// page turns into its fallback message; they never take the render down.
func (h *handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	overview := h.aggregator.Overview(r.Context(), h.cfg.Account, h.cfg.WindowDays, h.cfg.HistogramMonths)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"overview": overview,
		"message":  statusMessage(overview.Status),
	})
}

func (h *handler) handleMonthlyActivity(w http.ResponseWriter, r *http.Request) {
	histogram, err := h.aggregator.MonthlyCommitHistogram(r.Context(), h.cfg.Account, h.cfg.HistogramMonths)
	if err != nil {
		status := domain.StatusUnavailable
		if gateway.IsRateLimited(err) {
			status = domain.StatusRateLimited
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  status,
			"message": statusMessage(status),
		})
		return
	}
	if histogram == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "no_data",
			"message": msgNoData,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  domain.StatusOK,
		"monthly": usecase.MonthlySeries(histogram),
	})
}

func (h *handler) handleContributionCalendar(w http.ResponseWriter, r *http.Request) {
	days, err := h.aggregator.ContributionCalendar(r.Context(), h.cfg.Account, h.cfg.WindowDays)
	if err != nil {
		status := domain.StatusUnavailable
		message := msgUnavailable
		if errors.Is(err, gateway.ErrNoToken) {
			message = msgNeedsToken
		} else if gateway.IsRateLimited(err) {
			status = domain.StatusRateLimited
			message = msgRateLimited
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  status,
			"message": message,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": domain.StatusOK,
		"days":   days,
	})
}

// ContactRequest is a contact-form submission. It is validated and logged,
// never persisted.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Reason  string `json:"reason"`
	Company string `json:"company"`
	Message string `json:"message"`
	Urgency int    `json:"urgency"`
}

// Validate checks the submission.
func (c ContactRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Reason, validation.In("Say hi", "Collab", "Hire", "Other")),
		validation.Field(&c.Message, validation.Required, validation.Length(1, 5000)),
		validation.Field(&c.Urgency, validation.Min(1), validation.Max(5)),
	)
}

func (h *handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "invalid",
			"error":  "malformed request body",
		})
		return
	}
	if err := req.Validate(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "invalid",
			"errors": err,
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"name":    req.Name,
		"email":   req.Email,
		"reason":  req.Reason,
		"urgency": req.Urgency,
	}).Info("contact form received")

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}

// handleVisits tracks a per-session visit count in a cookie and a
// process-wide total.
func (h *handler) handleVisits(w http.ResponseWriter, r *http.Request) {
	session := 0
	if c, err := r.Cookie(visitCookie); err == nil {
		if n, err := strconv.Atoi(c.Value); err == nil && n >= 0 {
			session = n
		}
	}
	session++
	total := h.visits.Add(1)
	metrics.Visits.Inc()

	http.SetCookie(w, &http.Cookie{
		Name:     visitCookie,
		Value:    strconv.Itoa(session),
		Path:     "/",
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]int64{
		"session": int64(session),
		"total":   total,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusMessage(status string) string {
	switch status {
	case domain.StatusRateLimited:
		return msgRateLimited
	case domain.StatusUnavailable:
		return msgUnavailable
	default:
		return ""
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
