package httpadapter

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
	"github.com/cmgfi/tellcmg-api/internal/core/usecase"
	"github.com/cmgfi/tellcmg-api/internal/observability/metrics"
)

// HistoryExporter renders history entries into a downloadable workbook.
type HistoryExporter interface {
	Write(entries []domain.HistoryEntry, w io.Writer) error
}

type Router struct {
	structureUC *usecase.StructureUseCase
	interviewer ports.Interviewer
	submitter   ports.IdeaSubmitter
	history     *usecase.HistoryUseCase
	exporter    HistoryExporter
	metrics     *metrics.HTTPServerMetrics
	service     string
}

func NewRouter(
	structureUC *usecase.StructureUseCase,
	interviewer ports.Interviewer,
	submitter ports.IdeaSubmitter,
	history *usecase.HistoryUseCase,
	exporter HistoryExporter,
	m *metrics.HTTPServerMetrics,
	service string,
) *Router {
	return &Router{
		structureUC: structureUC,
		interviewer: interviewer,
		submitter:   submitter,
		history:     history,
		exporter:    exporter,
		metrics:     m,
		service:     service,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/ideas/structure", rt.structureIdea)
	mux.HandleFunc("/v1/interview", rt.interviewStep)
	mux.HandleFunc("/v1/ideas/submit", rt.submitIdea)
	mux.HandleFunc("/v1/history", rt.historyCollection)
	mux.HandleFunc("/v1/history/", rt.historyItem)
	mux.HandleFunc("/v1/settings", rt.settings)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = accessLogMiddleware(rt.service, handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type structureRequest struct {
	DraftID       string                `json:"draftId"`
	Transcript    string                `json:"transcript"`
	Modes         []string              `json:"modes"`
	Mode          string                `json:"mode"`
	DetailLevel   string                `json:"detailLevel"`
	OutputFormat  string                `json:"outputFormat"`
	Modifiers     []string              `json:"modifiers"`
	ContextInfo   string                `json:"contextInfo"`
	Attachments   []domain.Attachment   `json:"attachments"`
	URLReferences []domain.URLReference `json:"urlReferences"`
}

func (rt *Router) structureIdea(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req structureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	categories := req.Modes
	// Legacy clients send a single category in "mode".
	if len(categories) == 0 && req.Mode != "" {
		categories = []string{req.Mode}
	}

	start := time.Now()
	document, err := rt.structureUC.Structure(r.Context(), domain.IdeaDraft{
		ID:            req.DraftID,
		RawText:       req.Transcript,
		Categories:    categories,
		DetailLevel:   domain.DetailLevel(req.DetailLevel),
		OutputFormat:  domain.OutputFormat(req.OutputFormat),
		Modifiers:     req.Modifiers,
		Context:       req.ContextInfo,
		Attachments:   req.Attachments,
		URLReferences: req.URLReferences,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordStructuring(rt.service, rt.structureUC.Source(), time.Since(start))
	}
	writeJSON(w, http.StatusOK, map[string]string{"prompt": document})
}

type interviewRequest struct {
	Action         string                 `json:"action"`
	Transcript     string                 `json:"transcript"`
	Mode           string                 `json:"mode"`
	Messages       []domain.InterviewTurn `json:"messages"`
	ExistingPrompt string                 `json:"existingPrompt"`
}

func (rt *Router) interviewStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req interviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	domainReq := domain.InterviewRequest{
		Action:        domain.InterviewAction(req.Action),
		Transcript:    req.Transcript,
		Category:      req.Mode,
		Messages:      req.Messages,
		ExistingDraft: req.ExistingPrompt,
	}

	reply, err := rt.interviewer.Step(r.Context(), domainReq)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		phase := usecase.Phase(domainReq)
		if reply.Complete {
			phase = domain.PhaseDone
		}
		rt.metrics.RecordInterviewTurn(rt.service, req.Action, string(phase))
	}

	if !reply.Complete {
		writeJSON(w, http.StatusOK, map[string]string{"message": reply.Message})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordInterviewCompletion(rt.service, string(domainReq.Mode()))
	}
	if rt.history != nil {
		tag := req.Mode
		if tag == "" {
			tag = "general"
		}
		// Best-effort: the user already has their document.
		_, _ = rt.history.Record(r.Context(), req.Transcript, reply.FinalDocument, tag)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isComplete":  true,
		"finalPrompt": reply.FinalDocument,
	})
}

type submitRequest struct {
	Idea           string   `json:"idea"`
	Categories     []string `json:"categories"`
	SubmitterEmail string   `json:"submitterEmail"`
}

func (rt *Router) submitIdea(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	err := rt.submitter.Submit(r.Context(), req.Idea, req.Categories, req.SubmitterEmail)
	if rt.metrics != nil {
		rt.metrics.RecordSubmission(rt.service, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Idea submitted successfully!",
	})
}

func (rt *Router) historyCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := rt.history.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		writeJSON(w, http.StatusOK, entries)

	case http.MethodDelete:
		if err := rt.history.Clear(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) historyItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/history/")
	if rest == "export" {
		rt.exportHistory(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "history entry id is required"})
		return
	}
	if err := rt.history.Delete(r.Context(), rest); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (rt *Router) exportHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	entries, err := rt.history.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := rt.exporter.Write(entries, &buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="tellcmg-history.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (rt *Router) settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := rt.history.Settings(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)

	case http.MethodPut:
		var settings domain.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if err := rt.history.SaveSettings(r.Context(), settings); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain error kinds to statuses. Unclassified errors stay
// opaque to the client.
func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
