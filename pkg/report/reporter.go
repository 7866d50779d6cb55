package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/spectra-eyewear/spectra-backend/pkg/config"
	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
)

// Record is a structured error/metric entry shipped to the observability sink.
type Record struct {
	Kind      string         `json:"kind"`
	Source    string         `json:"source"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
	Timestamp string         `json:"timestamp"`
}

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Reporter posts records to the configured sink. Delivery is fire-and-forget:
// sink failures are logged and swallowed so reporting never blocks a request.
type Reporter struct {
	sinkURL string
	timeout time.Duration
	client  httpDoer
	logg    *logger.Logger
}

// New builds a Reporter. A missing sink URL yields a no-op reporter.
func New(cfg config.ReportConfig, logg *logger.Logger) *Reporter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reporter{
		sinkURL: cfg.SinkURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logg:    logg,
	}
}

// Report ships the record asynchronously.
func (r *Reporter) Report(ctx context.Context, record Record) {
	if r == nil || r.sinkURL == "" {
		return
	}
	if record.Timestamp == "" {
		record.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	go r.send(record)
}

func (r *Reporter) send(record Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	payload, err := json.Marshal(record)
	if err != nil {
		r.warn(ctx, "report.encode_failed", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.sinkURL, bytes.NewReader(payload))
	if err != nil {
		r.warn(ctx, "report.request_failed", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.warn(ctx, "report.post_failed", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		if r.logg != nil {
			logCtx := r.logg.WithField(ctx, "status", resp.StatusCode)
			r.logg.Warn(logCtx, "report.sink_rejected")
		}
	}
}

func (r *Reporter) warn(ctx context.Context, msg string, err error) {
	if r.logg == nil {
		return
	}
	logCtx := r.logg.WithField(ctx, "error", err.Error())
	r.logg.Warn(logCtx, msg)
}
