package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/argus/internal/agents"
	"github.com/wonny/argus/internal/gateway"
	"github.com/wonny/argus/internal/refresh"
	"github.com/wonny/argus/pkg/logger"
)

// Handler serves the published analysis state. It only reads what the
// refresh scheduler has swapped in; nothing here triggers evaluation.
type Handler struct {
	scheduler *refresh.Scheduler
	quotes    gateway.QuoteGateway
	panel     *agents.Panel
	logger    *logger.Logger
}

// NewHandler creates the API handler set.
func NewHandler(scheduler *refresh.Scheduler, quotes gateway.QuoteGateway, panel *agents.Panel, log *logger.Logger) *Handler {
	return &Handler{
		scheduler: scheduler,
		quotes:    quotes,
		panel:     panel,
		logger:    log,
	}
}

// GetAnalysis returns the last published holdings report.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	report := h.scheduler.HoldingsReport()
	if report == nil {
		writeError(w, http.StatusServiceUnavailable, "no holdings analysis published yet")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetPicks returns the last published screening result.
func (h *Handler) GetPicks(w http.ResponseWriter, r *http.Request) {
	picks := h.scheduler.Picks()
	if picks == nil {
		writeError(w, http.StatusServiceUnavailable, "no screening result published yet")
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

// GetRisk returns the last published risk assessment.
func (h *Handler) GetRisk(w http.ResponseWriter, r *http.Request) {
	assessment := h.scheduler.RiskAssessment()
	if assessment == nil {
		writeError(w, http.StatusServiceUnavailable, "no risk assessment published yet")
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

// GetMarketContext returns a fresh market snapshot. This endpoint hits
// the gateway rather than published state; snapshots are cheap and
// cached.
func (h *Handler) GetMarketContext(w http.ResponseWriter, r *http.Request) {
	market, err := h.quotes.GetMarketContext(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Market context fetch failed")
		writeError(w, http.StatusBadGateway, "market context unavailable")
		return
	}
	writeJSON(w, http.StatusOK, market)
}

// agentInfo describes one panel member for presentation.
type agentInfo struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// GetAgents lists the analyst panel.
func (h *Handler) GetAgents(w http.ResponseWriter, r *http.Request) {
	list := make([]agentInfo, 0, h.panel.Size())
	for _, a := range h.panel.Agents() {
		list = append(list, agentInfo{Name: a.Name(), Group: a.Group()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(list),
		"agents": list,
	})
}

// GetAgent describes one panel member by name.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	a, ok := h.panel.Agent(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown agent: "+name)
		return
	}
	writeJSON(w, http.StatusOK, agentInfo{Name: a.Name(), Group: a.Group()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
