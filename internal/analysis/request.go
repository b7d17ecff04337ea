package analysis

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-rater/internal/logger"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	logPreviewLimit = 200
)

// upload streams the résumé as multipart form data and returns the raw body
// of a 2xx answer. The file is expected to be validated by the caller.
func (c *Client) upload(ctx context.Context, r Request) ([]byte, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	file, err := os.Open(r.File.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.File.Name, err)
	}
	defer file.Close()

	partType, err := detectContentType(file)
	if err != nil {
		return nil, fmt.Errorf("detect content type of %s: %w", r.File.Name, err)
	}

	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := writeForm(w, r, partType, file)
		pw.CloseWithError(err)
		return err
	})

	req, err := http.NewRequestWithContext(gctx, http.MethodPost, c.APIURL+uploadPath, pr)
	if err != nil {
		pr.CloseWithError(err)
		_ = g.Wait()
		return nil, err
	}

	req = c.setHeaders(req, r.ID)
	req.Header.Set("Content-Type", w.FormDataContentType())

	log := logger.WithFields(c.logger,
		zap.String(logger.FieldSubmissionID, r.ID),
		zap.String(logger.FieldFile, r.File.Name),
	)

	resp, err := c.request(req)
	if err != nil {
		pr.CloseWithError(err)
		_ = g.Wait()
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	pr.Close()
	if werr := g.Wait(); werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
		log.Debug("multipart writer stopped early", zap.Error(werr))
	}
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	log.Debug("got response from analysis service",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serviceErr := &ServiceError{
			Status:     resp.StatusCode,
			StatusText: resp.Status,
			Message:    errorMessage(data),
		}
		log.Debug("analysis service refused the resume",
			zap.String("reason", serviceErr.Detail()),
			zap.String("body", logger.TruncateForLog(string(data), logPreviewLimit)),
		)
		return nil, serviceErr
	}

	return data, nil
}

func writeForm(w *multipart.Writer, r Request, partType string, src io.Reader) error {
	if title := strings.TrimSpace(r.JobTitle); title != "" {
		if err := w.WriteField(jobField, title); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, r.File.Name))
	h.Set("Content-Type", partType)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, src); err != nil {
		return err
	}

	return w.Close()
}

// detectContentType sniffs the file header and rewinds the file.
func detectContentType(f *os.File) (string, error) {
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return mtype.String(), nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request, requestID string) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	return req
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req, uuid.NewString())

	resp, err := c.request(req)
	if err != nil {
		return &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return &TransportError{Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{
			Status:     resp.StatusCode,
			StatusText: resp.Status,
			Message:    errorMessage(data),
		}
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

// readBody reads the whole response, inflating gzip bodies. Setting
// Accept-Encoding by hand disables the transport's transparent decoding.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}
