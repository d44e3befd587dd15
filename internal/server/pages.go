package server

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/haowan-apps/fangboard/internal/dashboard"
	"github.com/haowan-apps/fangboard/internal/events"
	"github.com/haowan-apps/fangboard/internal/model"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html.tmpl"))

// lockView feeds the locked page: the password prompt and nothing else.
type lockView struct {
	Message string
	Error   string
}

// grantedView feeds the dashboard page.
type grantedView struct {
	Banner     string
	VisitCount int
	Content    template.HTML
}

// handleIndex handles GET /. The gate is evaluated before anything else;
// when it denies, only the lock prompt renders; the visit counter and the
// dashboard never run.
func (s *GateServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	sess, err := s.sessions.Attach(w, r, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sess.Lock()
	defer sess.Unlock()

	d := s.evaluate(r.Context(), sess, now)
	if !d.Granted {
		s.renderLockPage(w, http.StatusOK, lockView{Message: d.Message})
		return
	}

	count := s.recorder.RecordVisit(r.Context(), sess, now)

	var content strings.Builder
	if err := s.dash.Render(&content, s.parseQuery(r)); err != nil {
		s.logger.Error("dashboard render failed", "error", err)
		writeError(w, http.StatusInternalServerError, "dashboard render failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.ExecuteTemplate(w, "granted", grantedView{
		Banner:     d.Message,
		VisitCount: count,
		Content:    template.HTML(content.String()),
	}); err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}

// handleUnlock handles POST /unlock: the password submission from the lock
// page. Only a locked session accepts a password; a submission while a
// window is still open redirects home with the session untouched. Success
// redirects back to the page so the fresh evaluation renders; failure
// re-renders the prompt with an inline error and an unchanged session.
func (s *GateServer) handleUnlock(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	sess, err := s.sessions.Attach(w, r, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sess.Lock()
	defer sess.Unlock()

	if d := s.evaluate(r.Context(), sess, now); d.Granted {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderLockPage(w, http.StatusBadRequest, lockView{Error: "malformed form submission"})
		return
	}

	if !s.gate.SubmitUnlock(sess, r.PostFormValue("password"), now) {
		s.renderLockPage(w, http.StatusUnauthorized, lockView{Error: "wrong password, try again"})
		return
	}

	if err := s.publisher.Publish(r.Context(), events.TopicGateUnlocked, events.GateUnlocked{
		SessionID:  sess.ID,
		UnlockedAt: now.Format("2006-01-02T15:04:05Z07:00"),
	}); err != nil {
		s.logger.Warn("failed to publish unlock event", "session", sess.ID, "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *GateServer) renderLockPage(w http.ResponseWriter, status int, v lockView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.ExecuteTemplate(w, "locked", v); err != nil {
		s.logger.Error("lock page render failed", "error", err)
	}
}

// parseQuery maps URL parameters onto a dashboard query, falling back to
// the first city, all districts, the price series, and the dataset's full
// year span.
func (s *GateServer) parseQuery(r *http.Request) dashboard.Query {
	minYear, maxYear := s.dash.Years()
	q := dashboard.Query{
		Metric:   model.MetricPrice,
		FromYear: minYear,
		ToYear:   maxYear,
	}

	if cities := s.dash.Cities(); len(cities) > 0 {
		q.City = cities[0]
	}
	if city := r.URL.Query().Get("city"); city != "" {
		q.City = city
	}
	q.Districts = r.URL.Query()["district"]

	if m := model.Metric(r.URL.Query().Get("metric")); m.IsValid() {
		q.Metric = m
	}
	if y, err := strconv.Atoi(r.URL.Query().Get("from")); err == nil {
		q.FromYear = y
	}
	if y, err := strconv.Atoi(r.URL.Query().Get("to")); err == nil {
		q.ToYear = y
	}
	if q.FromYear > q.ToYear {
		q.FromYear, q.ToYear = q.ToYear, q.FromYear
	}
	return q
}
