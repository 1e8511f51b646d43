package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	structuringsTotal    *prometheus.CounterVec
	structuringDuration  *prometheus.HistogramVec
	interviewTurnsTotal  *prometheus.CounterVec
	interviewCompletions *prometheus.CounterVec
	submissionsTotal     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tellcmg",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tellcmg",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tellcmg",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	structuringsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tellcmg",
			Subsystem: "idea",
			Name:      "structurings_total",
			Help:      "Total completed structurings by generation source.",
		},
		[]string{"service", "source"},
	)
	structuringDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tellcmg",
			Subsystem: "idea",
			Name:      "structuring_duration_seconds",
			Help:      "One-shot structuring duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "source"},
	)
	interviewTurnsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tellcmg",
			Subsystem: "interview",
			Name:      "turns_total",
			Help:      "Total interview turns served by action and dialogue phase.",
		},
		[]string{"service", "action", "phase"},
	)
	interviewCompletions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tellcmg",
			Subsystem: "interview",
			Name:      "completions_total",
			Help:      "Total interviews that reached a final document.",
		},
		[]string{"service", "mode"},
	)
	submissionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tellcmg",
			Subsystem: "submission",
			Name:      "total",
			Help:      "Total submission attempts by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		structuringsTotal,
		structuringDuration,
		interviewTurnsTotal,
		interviewCompletions,
		submissionsTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		structuringsTotal:    structuringsTotal,
		structuringDuration:  structuringDuration,
		interviewTurnsTotal:  interviewTurnsTotal,
		interviewCompletions: interviewCompletions,
		submissionsTotal:     submissionsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := NewResponseRecorder(w)

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/history/") && path != "/v1/history/export":
		return "/v1/history/{entry_id}"
	default:
		return path
	}
}

// RecordStructuring tracks one completed structuring; source is "llm" or
// "fallback".
func (m *HTTPServerMetrics) RecordStructuring(service, source string, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	m.structuringsTotal.WithLabelValues(service, source).Inc()
	m.structuringDuration.WithLabelValues(service, source).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordInterviewTurn(service, action, phase string) {
	if action == "" {
		action = "unknown"
	}
	if phase == "" {
		phase = "unknown"
	}
	m.interviewTurnsTotal.WithLabelValues(service, action, phase).Inc()
}

func (m *HTTPServerMetrics) RecordInterviewCompletion(service, mode string) {
	if mode == "" {
		mode = "unknown"
	}
	m.interviewCompletions.WithLabelValues(service, mode).Inc()
}

func (m *HTTPServerMetrics) RecordSubmission(service string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.submissionsTotal.WithLabelValues(service, outcome).Inc()
}

// ResponseRecorder captures status and body size while delegating to the
// wrapped writer. Both the metrics middleware and the access log wrap the
// response exactly once with it.
type ResponseRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *ResponseRecorder) Status() int { return w.statusCode }

func (w *ResponseRecorder) BytesWritten() int { return w.bytesWritten }

func (w *ResponseRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *ResponseRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

func (w *ResponseRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *ResponseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *ResponseRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
