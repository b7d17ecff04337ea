package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-rater/internal/analysis"
	"github.com/spigell/resume-rater/internal/logger"
	"github.com/spigell/resume-rater/internal/report"
	"github.com/spigell/resume-rater/internal/upload"
)

type analyzeFunc func(ctx context.Context, req analysis.Request) (*report.Report, error)

func (f analyzeFunc) Analyze(ctx context.Context, req analysis.Request) (*report.Report, error) {
	return f(ctx, req)
}

type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

func (r *recorder) last(t *testing.T) Notification {
	t.Helper()

	items := r.all()
	if len(items) == 0 {
		t.Fatalf("expected a notification")
	}
	return items[len(items)-1]
}

func sampleReport() *report.Report {
	return &report.Report{
		Headline: "Solid",
		Scores:   report.Scores{Overall: 7.8, ATSFriendliness: 85},
	}
}

var pdf = upload.File{Name: "cv.pdf", Size: 2 << 20}

func succeed(ctx context.Context, req analysis.Request) (*report.Report, error) {
	return sampleReport(), nil
}

func TestSubmitSucceeds(t *testing.T) {
	t.Parallel()

	var seen analysis.Request
	notes := &recorder{}
	m := New(analyzeFunc(func(ctx context.Context, req analysis.Request) (*report.Report, error) {
		seen = req
		return sampleReport(), nil
	}), WithNotifier(notes), WithJobTitle("SRE"))
	m.newID = func() string { return "sub-1" }

	if snap := m.Snapshot(); snap.State != StateIdle || !snap.SubmitEnabled || snap.ExportEnabled || snap.ResetEnabled {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}

	if err := m.Submit(context.Background(), pdf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen.ID != "sub-1" || seen.File.Name != "cv.pdf" || seen.JobTitle != "SRE" {
		t.Fatalf("unexpected request: %+v", seen)
	}

	snap := m.Snapshot()
	if snap.State != StateSucceeded || snap.Report == nil || snap.Failure != "" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.SubmitEnabled || !snap.ExportEnabled || !snap.ResetEnabled {
		t.Fatalf("unexpected trigger flags: %+v", snap)
	}

	note := notes.last(t)
	if note.Kind != NotifyAnalysisComplete || note.Title != "Analysis Complete!" {
		t.Fatalf("unexpected notification: %+v", note)
	}
	if note.Message != "Successfully analyzed cv.pdf. Check your results below." {
		t.Fatalf("unexpected message: %q", note.Message)
	}
}

func TestSubmitRejectsInvalidFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		file   upload.File
		reason upload.Reason
	}{
		{name: "too large", file: upload.File{Name: "cv.pdf", Size: upload.MaxSize + 1}, reason: upload.ReasonTooLarge},
		{name: "wrong type", file: upload.File{Name: "cv.png", Size: 10}, reason: upload.ReasonUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			notes := &recorder{}
			m := New(analyzeFunc(func(ctx context.Context, req analysis.Request) (*report.Report, error) {
				called = true
				return sampleReport(), nil
			}), WithNotifier(notes))

			err := m.Submit(context.Background(), tt.file)

			var validationErr *upload.ValidationError
			if !errors.As(err, &validationErr) || validationErr.Reason != tt.reason {
				t.Fatalf("expected %s rejection, got %v", tt.reason, err)
			}
			if called {
				t.Fatalf("analyzer must not be called for rejected files")
			}
			if m.State() != StateIdle {
				t.Fatalf("expected Idle, got %s", m.State())
			}

			note := notes.last(t)
			if note.Kind != NotifyValidationFailed || note.Message != err.Error() {
				t.Fatalf("unexpected notification: %+v", note)
			}
		})
	}
}

func TestSubmitWhileSubmitting(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	m := New(analyzeFunc(func(ctx context.Context, req analysis.Request) (*report.Report, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return sampleReport(), nil
	}))

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background(), pdf) }()
	<-started

	snap := m.Snapshot()
	if snap.State != StateSubmitting || snap.SubmitEnabled || snap.ExportEnabled || snap.ResetEnabled {
		t.Fatalf("unexpected snapshot while submitting: %+v", snap)
	}

	if err := m.Submit(context.Background(), pdf); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	if err := m.Reset(); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected reset to be refused, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected exactly one analyzer call, got %d", calls)
	}
	if m.State() != StateSucceeded {
		t.Fatalf("expected Succeeded, got %s", m.State())
	}
}

func TestSubmitFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		kind    FailureKind
		message string
	}{
		{
			name:    "service message",
			err:     &analysis.ServiceError{Status: 400, Message: "Could not extract text"},
			kind:    FailureService,
			message: "Could not extract text",
		},
		{
			name:    "service fallback",
			err:     &analysis.ServiceError{Status: 500, Message: analysis.FallbackMessage},
			kind:    FailureService,
			message: "Analysis failed",
		},
		{
			name:    "transport",
			err:     &analysis.TransportError{Cause: errors.New("connection refused")},
			kind:    FailureTransport,
			message: analysis.TransportMessage,
		},
		{
			name:    "malformed",
			err:     &report.MalformedResponseError{Fields: []report.FieldError{{Field: "scores", Message: "missing"}}},
			kind:    FailureMalformed,
			message: malformedMessage,
		},
		{
			name:    "unknown error",
			err:     errors.New("boom"),
			kind:    FailureTransport,
			message: analysis.TransportMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			notes := &recorder{}
			m := New(analyzeFunc(func(ctx context.Context, req analysis.Request) (*report.Report, error) {
				return nil, tt.err
			}), WithNotifier(notes))

			err := m.Submit(context.Background(), pdf)

			var failed *FailedError
			if !errors.As(err, &failed) {
				t.Fatalf("expected *FailedError, got %v", err)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected cause to be kept, got %v", err)
			}

			snap := m.Snapshot()
			if snap.State != StateFailed || snap.Report != nil {
				t.Fatalf("unexpected snapshot: %+v", snap)
			}
			if snap.FailureKind != tt.kind || snap.Failure != tt.message {
				t.Fatalf("expected %s %q, got %s %q", tt.kind, tt.message, snap.FailureKind, snap.Failure)
			}
			if snap.ExportEnabled || !snap.ResetEnabled || snap.SubmitEnabled {
				t.Fatalf("unexpected trigger flags: %+v", snap)
			}

			note := notes.last(t)
			if note.Kind != NotifyAnalysisFailed || note.Message == "" || !note.Destructive {
				t.Fatalf("unexpected notification: %+v", note)
			}
		})
	}
}

func TestSubmitTimeout(t *testing.T) {
	t.Parallel()

	m := New(analyzeFunc(func(ctx context.Context, req analysis.Request) (*report.Report, error) {
		<-ctx.Done()
		return nil, &analysis.TransportError{Cause: ctx.Err()}
	}), WithTimeout(20*time.Millisecond))

	err := m.Submit(context.Background(), pdf)

	var failed *FailedError
	if !errors.As(err, &failed) || failed.Kind != FailureTimeout {
		t.Fatalf("expected timeout failure, got %v", err)
	}

	if snap := m.Snapshot(); snap.FailureKind != FailureTimeout || snap.Failure == "" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	m := New(analyzeFunc(func(ctx context.Context, req analysis.Request) (*report.Report, error) {
		close(started)
		<-ctx.Done()
		return nil, &analysis.TransportError{Cause: ctx.Err()}
	}), WithTimeout(0))

	if m.Cancel() {
		t.Fatalf("expected nothing to cancel while idle")
	}

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background(), pdf) }()
	<-started

	if !m.Cancel() {
		t.Fatalf("expected in-flight submission to be cancelled")
	}

	var failed *FailedError
	if err := <-done; !errors.As(err, &failed) || failed.Kind != FailureCancelled {
		t.Fatalf("expected cancelled failure, got %v", err)
	}

	snap := m.Snapshot()
	if snap.State != StateFailed || snap.Failure != cancelledMessage {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestResetAndResubmit(t *testing.T) {
	t.Parallel()

	m := New(analyzeFunc(succeed))

	if err := m.Reset(); err != nil {
		t.Fatalf("reset from idle should be a no-op, got %v", err)
	}

	if err := m.Submit(context.Background(), pdf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.Submit(context.Background(), pdf); !errors.Is(err, ErrResetRequired) {
		t.Fatalf("expected ErrResetRequired, got %v", err)
	}

	if err := m.Reset(); err != nil {
		t.Fatalf("unexpected reset error: %v", err)
	}

	snap := m.Snapshot()
	if snap.State != StateIdle || snap.Report != nil || snap.Failure != "" || snap.SubmissionID != "" {
		t.Fatalf("expected clean idle snapshot, got %+v", snap)
	}
	if !snap.SubmitEnabled || snap.ExportEnabled || snap.ResetEnabled {
		t.Fatalf("unexpected trigger flags: %+v", snap)
	}

	if err := m.Submit(context.Background(), pdf); err != nil {
		t.Fatalf("resubmit after reset failed: %v", err)
	}
}

type exportFunc func(w io.Writer, r *report.Report) error

func (f exportFunc) Export(w io.Writer, r *report.Report) error { return f(w, r) }

func TestExport(t *testing.T) {
	t.Parallel()

	notes := &recorder{}
	exp := exportFunc(func(w io.Writer, r *report.Report) error {
		_, err := io.WriteString(w, r.Headline)
		return err
	})
	m := New(analyzeFunc(succeed), WithNotifier(notes), WithExporter(exp))

	var buf bytes.Buffer
	if err := m.Export(&buf, nil); !errors.Is(err, ErrNoReport) {
		t.Fatalf("expected ErrNoReport while idle, got %v", err)
	}

	if err := m.Submit(context.Background(), pdf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.Export(&buf, nil); err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	if buf.String() != "Solid" {
		t.Fatalf("unexpected export output %q", buf.String())
	}
	if note := notes.last(t); note.Kind != NotifyExportStarted || note.Title != "Export Started" {
		t.Fatalf("unexpected notification: %+v", note)
	}

	_ = m.Reset()
	if err := m.Export(&buf, nil); !errors.Is(err, ErrNoReport) {
		t.Fatalf("expected ErrNoReport after reset, got %v", err)
	}
}

func TestTransitionsAreLogged(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	m := New(analyzeFunc(succeed), WithLogger(zap.New(core)))
	m.newID = func() string { return "sub-42" }

	if err := m.Submit(context.Background(), pdf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterField(zap.String(logger.FieldSubmissionID, "sub-42")).All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	states := []string{
		entries[0].ContextMap()[logger.FieldState].(string),
		entries[1].ContextMap()[logger.FieldState].(string),
	}
	if states[0] != string(StateSubmitting) || states[1] != string(StateSucceeded) {
		t.Fatalf("unexpected states: %v", states)
	}
}
