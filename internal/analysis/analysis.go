// Package analysis talks to the remote résumé analysis service.
package analysis

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-rater/internal/report"
	"github.com/spigell/resume-rater/internal/upload"
)

const (
	DefaultURL       = "http://localhost:8000"
	DefaultUserAgent = "spigell/resume-rater"

	uploadPath = "/upload-resume"
	healthPath = "/health"
	fileField  = "file"
	jobField   = "job_title"
)

// Request is one résumé submission.
type Request struct {
	// ID is sent as X-Request-ID so both sides can correlate logs.
	ID   string
	File upload.File
	// JobTitle optionally narrows the analysis to a target role.
	JobTitle string
}

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.UserAgent = ua
		}
	}
}

// New creates a client for the service at apiURL. Request deadlines are
// taken from the context passed to each call.
func New(logger *zap.Logger, apiURL string, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = DefaultURL
	}

	c := &Client{
		APIURL:     apiURL,
		HTTPClient: &http.Client{},
		logger:     logger,
		UserAgent:  DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Analyze uploads the résumé and decodes the returned report.
func (c *Client) Analyze(ctx context.Context, req Request) (*report.Report, error) {
	data, err := c.upload(ctx, req)
	if err != nil {
		return nil, err
	}

	r, err := report.Decode(data)
	if err != nil {
		c.logger.Debug("analysis response rejected",
			zap.String("submission_id", req.ID),
			zap.Error(err),
		)
		return nil, err
	}

	return r, nil
}

// Health returns the status string reported by the service, e.g. "ok" or a
// "degraded (...)" explanation.
func (c *Client) Health(ctx context.Context) (string, error) {
	var target struct {
		Status string `json:"status"`
	}

	if err := c.getJSON(ctx, c.APIURL+healthPath, &target); err != nil {
		return "", err
	}

	return target.Status, nil
}
