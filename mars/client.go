// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package mars

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/internal/logging"
)

// JobStatus is the state of an asynchronous retrieval job on the service.
type JobStatus string

const (
	JobQueued   JobStatus = "queued"
	JobActive   JobStatus = "active"
	JobComplete JobStatus = "complete"
	JobAborted  JobStatus = "aborted"
	JobRejected JobStatus = "rejected"
)

// Terminal reports whether the job will not change state anymore.
func (s JobStatus) Terminal() bool {
	return s == JobComplete || s == JobAborted || s == JobRejected
}

// Job is the service-side handle of a submitted retrieval. Href addresses
// the job itself; Result addresses the retrieved data once the job is
// complete, with Size the byte count the download must match.
type Job struct {
	ID     string    `json:"name"`
	Href   string    `json:"href"`
	Status JobStatus `json:"status"`
	Result string    `json:"result,omitempty"`
	Size   int64     `json:"size,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// ClientConfig carries the service endpoint and credentials. Credentials are
// always passed in explicitly; the client never consults ambient state.
type ClientConfig struct {
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
	Key      string `json:"key"      mapstructure:"key"`
	Email    string `json:"email"    mapstructure:"email"`
}

// Client talks to the MARS web service: submit a request, poll the job,
// download the result. All calls are context-bound; the client itself is
// safe for concurrent use.
type Client struct {
	cfg     ClientConfig
	httpCli *http.Client
	logger  zerolog.Logger
}

// NewClient validates the endpoint and returns a service client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing service endpoint")
	}

	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid service endpoint %q: %w", cfg.Endpoint, err)
	}

	return &Client{
		cfg: cfg,
		httpCli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:    8,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: logging.Logger("mars"),
	}, nil
}

// Submit posts a retrieval request and returns the job handle. A rejection
// (the service refuses the request outright) is permanent and reported as
// DataUnavailableError.
func (c *Client) Submit(ctx context.Context, req Request) (*Job, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, c.requestsURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	job, err := c.doJob(httpReq)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("job", job.ID).Str("status", string(job.Status)).Msg("submitted retrieval request")

	return job, nil
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, job *Job) (*Job, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, c.resolve(job.Href), nil)
	if err != nil {
		return nil, err
	}

	return c.doJob(httpReq)
}

// Wait polls the job until it reaches a terminal state or the context
// expires.
func (c *Client) Wait(ctx context.Context, job *Job, interval time.Duration) (*Job, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}

		next, err := c.Status(ctx, job)
		if err != nil {
			return job, err
		}

		job = next
	}
}

// Download streams the result of a completed job to w and returns the byte
// count written.
func (c *Client) Download(ctx context.Context, job *Job, w io.Writer) (int64, error) {
	if job.Status != JobComplete {
		return 0, fmt.Errorf("job %s is not complete (status %s)", job.ID, job.Status)
	}

	if job.Result == "" {
		return 0, fmt.Errorf("job %s reports no result location", job.ID)
	}

	httpReq, err := c.newRequest(ctx, http.MethodGet, c.resolve(job.Result), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch result: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("result fetch returned status %d", resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to stream result: %w", err)
	}

	return n, nil
}

// Abort deletes the job on the service. Used best-effort when a caller
// deadline expires, so an error is returned but safe to ignore.
func (c *Client) Abort(ctx context.Context, job *Job) error {
	httpReq, err := c.newRequest(ctx, http.MethodDelete, c.resolve(job.Href), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to abort job %s: %w", job.ID, err)
	}
	defer drain(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("abort of job %s returned status %d", job.ID, resp.StatusCode)
	}

	c.logger.Debug().Str("job", job.ID).Msg("aborted retrieval job")

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-ECMWF-KEY", c.cfg.Key)
	httpReq.Header.Set("From", c.cfg.Email)

	return httpReq, nil
}

// doJob performs a request whose response body is a job document. Client
// errors from the service are permanent rejections; server errors stay
// plain so callers can retry them.
func (c *Client) doJob(httpReq *http.Request) (*Job, error) {
	resp, err := c.httpCli.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("service request failed: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("service returned status %d", resp.StatusCode)
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job document: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || job.Status == JobRejected {
		reason := job.Reason
		if reason == "" {
			reason = fmt.Sprintf("service returned status %d", resp.StatusCode)
		}

		return nil, &ecmwferrors.DataUnavailableError{Reason: reason}
	}

	return &job, nil
}

func (c *Client) requestsURL() string {
	return strings.TrimSuffix(c.cfg.Endpoint, "/") + "/services/mars/requests"
}

// resolve turns service-relative hrefs into absolute URLs.
func (c *Client) resolve(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	return strings.TrimSuffix(c.cfg.Endpoint, "/") + "/" + strings.TrimPrefix(href, "/")
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
