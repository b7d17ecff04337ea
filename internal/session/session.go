// Package session owns the lifecycle of a single résumé submission and the
// report it produces.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-rater/internal/analysis"
	"github.com/spigell/resume-rater/internal/logger"
	"github.com/spigell/resume-rater/internal/report"
	"github.com/spigell/resume-rater/internal/upload"
)

// State is a node of the submission lifecycle.
type State string

const (
	StateIdle       State = "Idle"
	StateSubmitting State = "Submitting"
	StateSucceeded  State = "Succeeded"
	StateFailed     State = "Failed"
)

// Terminal reports whether only Reset can leave the state.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// FailureKind classifies why a submission ended in StateFailed.
type FailureKind string

const (
	FailureService   FailureKind = "Service"
	FailureTransport FailureKind = "Transport"
	FailureMalformed FailureKind = "Malformed"
	FailureTimeout   FailureKind = "Timeout"
	FailureCancelled FailureKind = "Cancelled"
)

// DefaultTimeout bounds a submission when no timeout option is given.
const DefaultTimeout = 2 * time.Minute

const (
	malformedMessage = "The analysis service returned an unexpected response. Please try again."
	cancelledMessage = "Analysis was cancelled."
	timeoutMessage   = "The analysis service took too long to respond. Please try again."
)

var (
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrResetRequired      = errors.New("reset the current result before submitting again")
	ErrNoReport           = errors.New("no report to export")
)

// Analyzer sends a submission to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*report.Report, error)
}

// Exporter writes a report in some file format.
type Exporter interface {
	Export(w io.Writer, r *report.Report) error
}

// FailedError is returned by Submit when the submission ends in StateFailed.
type FailedError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("analysis failed (%s): %s", e.Kind, e.Message)
}

func (e *FailedError) Unwrap() error {
	return e.Cause
}

// Snapshot is a read-only view of the machine. Report is shared and must not
// be modified.
type Snapshot struct {
	State        State
	SubmissionID string
	File         upload.File
	Report       *report.Report
	Failure      string
	FailureKind  FailureKind

	SubmitEnabled bool
	ResetEnabled  bool
	ExportEnabled bool
}

// Machine is the submission state machine. It is safe for concurrent use;
// Submit blocks for the duration of the request without holding the lock.
type Machine struct {
	analyzer  Analyzer
	notifier  Notifier
	logger    *zap.Logger
	validator *upload.Validator
	exporter  Exporter
	timeout   time.Duration
	jobTitle  string
	newID     func() string

	mu           sync.Mutex
	state        State
	submissionID string
	file         upload.File
	report       *report.Report
	failure      string
	failureKind  FailureKind
	cancel       context.CancelFunc
	cancelled    bool
}

// Option customizes a Machine.
type Option func(*Machine)

func WithNotifier(n Notifier) Option {
	return func(m *Machine) {
		if n != nil {
			m.notifier = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.logger = logger.WithFields(l) }
}

// WithTimeout bounds each submission. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(m *Machine) { m.timeout = max(d, 0) }
}

// WithValidator replaces the pre-flight rules. The analyzer never checks
// files itself, so these rules are the only gate before an upload.
func WithValidator(v *upload.Validator) Option {
	return func(m *Machine) {
		if v != nil {
			m.validator = v
		}
	}
}

// WithExporter sets the exporter used when Export gets none.
func WithExporter(e Exporter) Option {
	return func(m *Machine) { m.exporter = e }
}

// WithJobTitle sends a target role along with every submission.
func WithJobTitle(title string) Option {
	return func(m *Machine) { m.jobTitle = title }
}

// New creates a machine in StateIdle.
func New(analyzer Analyzer, opts ...Option) *Machine {
	m := &Machine{
		analyzer:  analyzer,
		notifier:  nopNotifier{},
		logger:    zap.NewNop(),
		validator: upload.New(),
		timeout:   DefaultTimeout,
		newID:     uuid.NewString,
		state:     StateIdle,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Submit validates f and, if it passes, sends it for analysis and waits for
// the outcome. A rejected file leaves the machine in StateIdle and returns
// the *upload.ValidationError. A failed analysis returns a *FailedError.
func (m *Machine) Submit(ctx context.Context, f upload.File) error {
	m.mu.Lock()
	switch m.state {
	case StateSubmitting:
		m.mu.Unlock()
		return ErrSubmissionInFlight
	case StateSucceeded, StateFailed:
		m.mu.Unlock()
		return ErrResetRequired
	}

	if err := m.validator.Validate(f); err != nil {
		m.mu.Unlock()
		m.logger.Info("file rejected", zap.String(logger.FieldFile, f.Name), zap.Error(err))
		m.notifier.Notify(Notification{
			Kind:        NotifyValidationFailed,
			Title:       "Invalid File",
			Message:     err.Error(),
			Destructive: true,
		})
		return err
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if m.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, m.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}

	id := m.newID()
	m.state = StateSubmitting
	m.submissionID = id
	m.file = f
	m.cancel = cancel
	m.cancelled = false
	m.mu.Unlock()

	log := logger.WithSubmission(m.logger, id, f.Name)
	log.Info("submitting resume", zap.String(logger.FieldState, string(StateSubmitting)), zap.Int64("bytes", f.Size))

	r, err := m.analyzer.Analyze(runCtx, analysis.Request{ID: id, File: f, JobTitle: m.jobTitle})
	ctxErr := runCtx.Err()
	cancel()

	m.mu.Lock()
	cancelled := m.cancelled
	m.cancel = nil
	m.cancelled = false

	if err == nil && r == nil {
		err = &report.MalformedResponseError{Fields: []report.FieldError{{Field: "(root)", Message: "empty report"}}}
	}

	if err == nil {
		m.state = StateSucceeded
		m.report = r
		m.mu.Unlock()

		log.Info("analysis complete", zap.String(logger.FieldState, string(StateSucceeded)))
		m.notifier.Notify(Notification{
			Kind:    NotifyAnalysisComplete,
			Title:   "Analysis Complete!",
			Message: fmt.Sprintf("Successfully analyzed %s. Check your results below.", f.Name),
		})
		return nil
	}

	failed := m.classify(err, ctxErr, cancelled)
	m.state = StateFailed
	m.failure = failed.Message
	m.failureKind = failed.Kind
	m.mu.Unlock()

	log.Warn("analysis failed",
		zap.String(logger.FieldState, string(StateFailed)),
		zap.String("kind", string(failed.Kind)),
		zap.Error(err),
	)
	m.notifier.Notify(Notification{
		Kind:        NotifyAnalysisFailed,
		Title:       "Analysis Failed",
		Message:     failed.Message,
		Destructive: true,
	})

	return failed
}

func (m *Machine) classify(err, ctxErr error, cancelled bool) *FailedError {
	failed := &FailedError{Cause: err}

	var (
		serviceErr   *analysis.ServiceError
		malformedErr *report.MalformedResponseError
	)

	switch {
	case cancelled, errors.Is(ctxErr, context.Canceled):
		failed.Kind = FailureCancelled
		failed.Message = cancelledMessage
	case errors.Is(ctxErr, context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		failed.Kind = FailureTimeout
		failed.Message = timeoutMessage
		if m.timeout > 0 {
			failed.Message = fmt.Sprintf("The analysis service did not respond within %s. Please try again.", m.timeout)
		}
	case errors.As(err, &serviceErr):
		failed.Kind = FailureService
		failed.Message = serviceErr.Message
	case errors.As(err, &malformedErr):
		failed.Kind = FailureMalformed
		failed.Message = malformedMessage
	default:
		failed.Kind = FailureTransport
		failed.Message = analysis.TransportMessage
	}

	if failed.Message == "" {
		failed.Message = analysis.FallbackMessage
	}

	return failed
}

// Cancel aborts the in-flight submission. It reports false when nothing is
// in flight.
func (m *Machine) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateSubmitting || m.cancel == nil {
		return false
	}

	m.cancelled = true
	m.cancel()
	return true
}

// Reset discards the report or failure and returns to StateIdle. It never
// cancels an in-flight submission.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateIdle:
		return nil
	}

	m.logger.Info("session reset",
		zap.String(logger.FieldSubmissionID, m.submissionID),
		zap.String(logger.FieldState, string(StateIdle)),
	)

	m.state = StateIdle
	m.submissionID = ""
	m.file = upload.File{}
	m.report = nil
	m.failure = ""
	m.failureKind = ""

	return nil
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Validate checks f against the machine's rules without submitting it.
func (m *Machine) Validate(f upload.File) error {
	return m.validator.Validate(f)
}

// Snapshot returns a consistent copy of the machine.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		State:         m.state,
		SubmissionID:  m.submissionID,
		File:          m.file,
		Report:        m.report,
		Failure:       m.failure,
		FailureKind:   m.failureKind,
		SubmitEnabled: m.state == StateIdle,
		ResetEnabled:  m.state.Terminal(),
		ExportEnabled: m.state == StateSucceeded,
	}
}

// Export writes the current report with exp, or with the configured
// exporter when exp is nil. It fails with ErrNoReport outside StateSucceeded.
func (m *Machine) Export(w io.Writer, exp Exporter) error {
	m.mu.Lock()
	r := m.report
	state := m.state
	id := m.submissionID
	m.mu.Unlock()

	if state != StateSucceeded || r == nil {
		return ErrNoReport
	}

	if exp == nil {
		exp = m.exporter
	}
	if exp == nil {
		return errors.New("no exporter configured")
	}

	m.notifier.Notify(Notification{
		Kind:    NotifyExportStarted,
		Title:   "Export Started",
		Message: "Your resume analysis report is being prepared.",
	})

	if err := exp.Export(w, r); err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	m.logger.Info("report exported", zap.String(logger.FieldSubmissionID, id))

	return nil
}
