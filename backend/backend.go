// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package backend implements the ecmwfapi remote backend: it turns a remote
// locator back into MARS requests, drives the asynchronous service jobs and
// stages the result atomically at the destination.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/internal/datastore"
	"github.com/stcorp/muninn-ecmwfmars/internal/logging"
	"github.com/stcorp/muninn-ecmwfmars/internal/metrics"
	"github.com/stcorp/muninn-ecmwfmars/internal/retry"
	"github.com/stcorp/muninn-ecmwfmars/mars"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

// Backend retrieves products from the MARS service. It implements
// types.RemoteBackend and is safe for concurrent pulls of distinct locators:
// all per-pull state lives in a types.RetrievalAttempt owned by the call.
type Backend struct {
	cfg     Config
	client  *mars.Client
	fs      afero.Fs
	ds      datastore.Datastore
	journal *journal
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// Option overrides a Backend collaborator, mainly for tests.
type Option func(*Backend)

// WithFs substitutes the staging filesystem.
func WithFs(fs afero.Fs) Option {
	return func(b *Backend) { b.fs = fs }
}

// WithDatastore substitutes the journal datastore.
func WithDatastore(ds datastore.Datastore) Option {
	return func(b *Backend) { b.ds = ds }
}

// WithMetrics substitutes the metrics set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Backend) { b.metrics = m }
}

// New creates a backend for cfg.
func New(cfg Config, opts ...Option) (*Backend, error) {
	b := &Backend{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		logger: logging.Logger("backend"),
	}

	for _, opt := range opts {
		opt(b)
	}

	client, err := mars.NewClient(cfg.Service)
	if err != nil {
		return nil, err
	}

	b.client = client

	if b.metrics == nil {
		b.metrics = metrics.Default()
	}

	if b.ds == nil {
		var dsOpts []datastore.Option
		if cfg.JournalPath != "" {
			dsOpts = append(dsOpts, datastore.WithFsProvider(cfg.JournalPath))
		}

		ds, err := datastore.New(dsOpts...)
		if err != nil {
			return nil, err
		}

		b.ds = ds
	}

	b.journal = newJournal(b.ds, b.fs, b.logger)

	return b, nil
}

// Pull materializes the product named by locator below the destination
// directory and returns the staged path. The destination file appears
// atomically: results are staged into a collision-free temporary next to it
// and renamed into place only after verification. No failure path leaves a
// partial destination file behind.
func (b *Backend) Pull(ctx context.Context, locator, destination string) (string, error) {
	started := time.Now()

	filename, requests, err := mars.ParseLocator(locator)
	if err != nil {
		b.metrics.ObservePull("malformed", started, 0)

		return "", err
	}

	finalPath := filepath.Join(destination, filename)

	if path, ok := b.journal.lookup(ctx, locator, finalPath); ok {
		b.logger.Debug().Str("path", path).Msg("pull satisfied from journal")
		b.metrics.ObservePull("journaled", started, 0)

		return path, nil
	}

	attempt := &types.RetrievalAttempt{
		Locator: types.RemoteLocator{URL: locator, PhysicalName: filename},
		Status:  types.AttemptPending,
	}

	size, dgst, failedAttempts, err := b.stage(ctx, attempt, requests, finalPath)
	if err != nil {
		b.metrics.ObservePull("failed", started, 0)
		b.logger.Error().Err(err).Str("locator", locator).Int("retries", attempt.Retries).
			Msg("pull failed")

		switch {
		case ecmwferrors.IsRejection(err):
			return "", err
		case ctx.Err() != nil:
			return "", &ecmwferrors.TimeoutError{Elapsed: time.Since(started), Err: err}
		default:
			return "", &ecmwferrors.RetrievalFailedError{Attempts: failedAttempts, Err: err}
		}
	}

	b.journal.record(ctx, journalEntry{
		Locator:  locator,
		Path:     finalPath,
		Size:     size,
		Digest:   dgst,
		StagedAt: time.Now().UTC(),
	})

	b.metrics.ObservePull("staged", started, size)
	b.logger.Info().Str("path", finalPath).Int64("bytes", size).
		Int("retries", attempt.Retries).Dur("elapsed", time.Since(started)).
		Msg("pull staged")

	return finalPath, nil
}

// stage downloads all sub-requests into one temporary file, verifies it and
// renames it into place. On any error the temporary file is removed. The int
// result is the number of attempts made by the failing sub-request, or 1 when
// the failure happened outside a sub-request.
func (b *Backend) stage(ctx context.Context, attempt *types.RetrievalAttempt,
	requests []mars.Request, finalPath string,
) (int64, digest.Digest, int, error) {
	dir := filepath.Dir(finalPath)
	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		return 0, "", 1, fmt.Errorf("failed to create destination directory: %w", err)
	}

	attempt.StagingPath = filepath.Join(dir,
		fmt.Sprintf(".%s.%s.tmp", filepath.Base(finalPath), uuid.NewString()))
	attempt.Status = types.AttemptInProgress

	combined, err := b.fs.Create(attempt.StagingPath)
	if err != nil {
		return 0, "", 1, fmt.Errorf("failed to create staging file: %w", err)
	}

	fail := func(err error) error {
		combined.Close()
		_ = b.fs.Remove(attempt.StagingPath)
		attempt.Status = types.AttemptFailed

		return err
	}

	digester := digest.SHA256.Digester()
	out := io.MultiWriter(combined, digester.Hash())

	var total int64

	for i, req := range requests {
		n, attempts, err := b.pullSubRequest(ctx, attempt, req, out, i)
		if err != nil {
			return 0, "", attempts, fail(err)
		}

		total += n
	}

	if total == 0 {
		return 0, "", 1, fail(errors.New("service returned an empty result"))
	}

	if err := combined.Sync(); err != nil {
		return 0, "", 1, fail(fmt.Errorf("failed to sync staging file: %w", err))
	}

	if err := combined.Close(); err != nil {
		return 0, "", 1, fail(fmt.Errorf("failed to close staging file: %w", err))
	}

	if err := b.fs.Rename(attempt.StagingPath, finalPath); err != nil {
		_ = b.fs.Remove(attempt.StagingPath)
		attempt.Status = types.AttemptFailed

		return 0, "", 1, fmt.Errorf("failed to move staged file into place: %w", err)
	}

	attempt.Status = types.AttemptStaged

	return total, digester.Digest(), 0, nil
}

// pullSubRequest retrieves one sub-request into a part file and appends it
// to out. Each retry attempt starts the part file over, so a partial
// download never reaches the combined result. The int result is the number
// of attempts this sub-request made.
func (b *Backend) pullSubRequest(ctx context.Context, attempt *types.RetrievalAttempt,
	req mars.Request, out io.Writer, idx int,
) (int64, int, error) {
	part := fmt.Sprintf("%s.part%d", attempt.StagingPath, idx)
	defer func() { _ = b.fs.Remove(part) }()

	retryCfg := retry.Config{
		MaxAttempts:  b.cfg.MaxRetries + 1,
		InitialDelay: b.cfg.RetryDelay,
		MaxDelay:     b.cfg.RetryMaxWait,
		Multiplier:   2.0,
		AddJitter:    true,
	}

	attempts := 0

	err := retry.Do(ctx, retryCfg, func() error {
		attempts++

		if err := b.downloadOnce(ctx, req, part); err != nil {
			if !ecmwferrors.IsTransient(err) {
				return retry.NonRetryable(err)
			}

			b.metrics.PullRetriesTotal.Inc()

			return err
		}

		return nil
	})

	attempt.Retries += attempts - 1

	if err != nil {
		var nre *retry.NonRetryableError
		if errors.As(err, &nre) {
			err = nre.Err
		}

		return 0, attempts, err
	}

	f, err := b.fs.Open(part)
	if err != nil {
		return 0, attempts, fmt.Errorf("failed to reopen part file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(out, f)
	if err != nil {
		return n, attempts, fmt.Errorf("failed to append part file: %w", err)
	}

	return n, attempts, nil
}

// downloadOnce runs one submit/poll/download cycle into the part file,
// truncating whatever a previous attempt left there.
func (b *Backend) downloadOnce(ctx context.Context, req mars.Request, part string) error {
	f, err := b.fs.Create(part)
	if err != nil {
		return fmt.Errorf("failed to create part file: %w", err)
	}
	defer f.Close()

	job, err := b.client.Submit(ctx, req)
	if err != nil {
		return err
	}

	b.metrics.JobsInFlight.Inc()
	defer b.metrics.JobsInFlight.Dec()

	job, err = b.client.Wait(ctx, job, b.cfg.PollInterval)
	if err != nil {
		if ctx.Err() != nil {
			b.abort(job)
		}

		return err
	}

	if job.Status != mars.JobComplete {
		return fmt.Errorf("job %s ended in state %s", job.ID, job.Status)
	}

	n, err := b.client.Download(ctx, job, f)
	if err != nil {
		if ctx.Err() != nil {
			b.abort(job)
		}

		return err
	}

	if job.Size > 0 && n != job.Size {
		return fmt.Errorf("result size mismatch: got %d bytes, want %d", n, job.Size)
	}

	return nil
}

// abort tells the service to drop the job. The caller's context is already
// dead at this point, so a short independent one is used and failure only
// logged.
func (b *Backend) abort(job *mars.Job) {
	if job == nil {
		return
	}

	abortCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.client.Abort(abortCtx, job); err != nil {
		b.logger.Warn().Err(err).Str("job", job.ID).Msg("failed to abort remote job")
	}
}
