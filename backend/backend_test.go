// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stcorp/muninn-ecmwfmars/ecmwferrors"
	"github.com/stcorp/muninn-ecmwfmars/internal/metrics"
	"github.com/stcorp/muninn-ecmwfmars/mars"
)

const testLocator = "ecmwfapi:product.grib?" +
	"class=od&stream=oper&expver=0001&type=fc&date=2024-03-01&time=12:00:00&" +
	"step=6&levtype=sfc&param=167.128"

const concatLocator = "ecmwfapi:product.grib?" +
	"class=od&stream=oper&expver=0001&type=fc&date=2024-03-01&time=12:00:00&" +
	"step=6&levtype=sfc&param=167.128" +
	"&concatenate&" +
	"class=od&stream=oper&expver=0001&type=fc&date=2024-03-01&time=12:00:00&" +
	"step=6&levtype=pl&param=130.128&levelist=500/850"

// marsStub is a minimal in-process MARS web service. Results are keyed by
// the levtype of the submitted request.
type marsStub struct {
	mu sync.Mutex

	results map[string][]byte

	failSubmits int    // respond 500 to this many submissions
	failLevtype string // respond 500 to every submission for this levtype
	reject      bool   // reject every submission
	pollsToGo   int    // status polls before the job completes
	neverDone   bool   // keep the job queued forever
	shortReads  bool   // report full size but serve one byte less

	levtype string // levtype of the last submitted request
	submits int
	aborted bool
}

func newMarsStub() *marsStub {
	return &marsStub{
		results: map[string][]byte{
			"sfc": []byte("surface GRIB payload"),
			"pl":  []byte("pressure level GRIB payload"),
		},
	}
}

func (s *marsStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/services/mars/requests", s.handleSubmit)
	mux.HandleFunc("/jobs/j1", s.handleJob)
	mux.HandleFunc("/jobs/j1/result", s.handleResult)

	return mux
}

func (s *marsStub) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)

		return
	}

	s.submits++

	if s.submits <= s.failSubmits {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	if s.reject {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "rejected",
			"reason": "no data available for the requested period",
		})

		return
	}

	var req mars.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	if s.failLevtype != "" && req.Levtype == s.failLevtype {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	s.levtype = req.Levtype

	if s.neverDone || s.pollsToGo > 0 {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":   "j1",
			"href":   "/jobs/j1",
			"status": "queued",
		})

		return
	}

	s.writeComplete(w)
}

func (s *marsStub) handleJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Method == http.MethodDelete {
		s.aborted = true
		w.WriteHeader(http.StatusOK)

		return
	}

	if s.neverDone || s.pollsToGo > 0 {
		s.pollsToGo--

		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":   "j1",
			"href":   "/jobs/j1",
			"status": "active",
		})

		return
	}

	s.writeComplete(w)
}

func (s *marsStub) handleResult(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body := s.results[s.levtype]
	if s.shortReads {
		body = body[:len(body)-1]
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *marsStub) writeComplete(w http.ResponseWriter) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"name":   "j1",
		"href":   "/jobs/j1",
		"status": "complete",
		"result": "/jobs/j1/result",
		"size":   len(s.results[s.levtype]),
	})
}

func (s *marsStub) submitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submits
}

func (s *marsStub) wasAborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.aborted
}

func newTestBackend(t *testing.T, stub *marsStub) *Backend {
	t.Helper()

	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	cfg := DefaultConfig
	cfg.Service = mars.ClientConfig{Endpoint: srv.URL, Key: "key", Email: "user@example.com"}
	cfg.MaxRetries = 2
	cfg.PollInterval = 5 * time.Millisecond
	cfg.RetryDelay = time.Millisecond
	cfg.RetryMaxWait = 5 * time.Millisecond

	b, err := New(cfg, WithMetrics(metrics.New(prometheus.NewRegistry())))
	require.NoError(t, err)

	return b
}

// assertNoLeftovers fails if any staging temporaries survived the pull.
func assertNoLeftovers(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."),
			"leftover staging file %s", e.Name())
	}
}

func TestPull(t *testing.T) {
	stub := newMarsStub()
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	path, err := b.Pull(context.Background(), testLocator, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "product.grib"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "surface GRIB payload", string(data))

	assertNoLeftovers(t, dest)
}

func TestPull_PollsUntilComplete(t *testing.T) {
	stub := newMarsStub()
	stub.pollsToGo = 3
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	path, err := b.Pull(context.Background(), testLocator, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "surface GRIB payload", string(data))
}

func TestPull_Concatenated(t *testing.T) {
	stub := newMarsStub()
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	path, err := b.Pull(context.Background(), concatLocator, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "surface GRIB payloadpressure level GRIB payload", string(data))

	assertNoLeftovers(t, dest)
}

func TestPull_RetriesTransientFailures(t *testing.T) {
	stub := newMarsStub()
	stub.failSubmits = 2 // within the budget of 1+2 attempts
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	path, err := b.Pull(context.Background(), testLocator, dest)
	require.NoError(t, err)
	assert.Equal(t, 3, stub.submitCount())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "surface GRIB payload", string(data))
}

func TestPull_RetryBudgetExhausted(t *testing.T) {
	stub := newMarsStub()
	stub.failSubmits = 100
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	_, err := b.Pull(context.Background(), testLocator, dest)
	require.Error(t, err)

	var rfe *ecmwferrors.RetrievalFailedError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, 3, rfe.Attempts)
	assert.Equal(t, 3, stub.submitCount())

	_, statErr := os.Stat(filepath.Join(dest, "product.grib"))
	assert.True(t, os.IsNotExist(statErr), "destination must not exist after failure")
	assertNoLeftovers(t, dest)
}

func TestPull_AttemptsCountTheFailingSubRequest(t *testing.T) {
	stub := newMarsStub()
	stub.failSubmits = 1    // the sfc sub-request needs one retry
	stub.failLevtype = "pl" // the pl sub-request never succeeds
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	_, err := b.Pull(context.Background(), concatLocator, dest)
	require.Error(t, err)

	var rfe *ecmwferrors.RetrievalFailedError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, 3, rfe.Attempts, "only the failing sub-request's attempts count")
	assert.Equal(t, 5, stub.submitCount())

	assertNoLeftovers(t, dest)
}

func TestPull_RejectionIsNotRetried(t *testing.T) {
	stub := newMarsStub()
	stub.reject = true
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	_, err := b.Pull(context.Background(), testLocator, dest)
	require.Error(t, err)

	var due *ecmwferrors.DataUnavailableError
	require.ErrorAs(t, err, &due)
	assert.Contains(t, due.Reason, "no data available")
	assert.Equal(t, 1, stub.submitCount(), "rejection must consume exactly one attempt")

	assertNoLeftovers(t, dest)
}

func TestPull_DeadlineAbortsJob(t *testing.T) {
	stub := newMarsStub()
	stub.neverDone = true
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := b.Pull(ctx, testLocator, dest)
	require.Error(t, err)

	var te *ecmwferrors.TimeoutError
	require.ErrorAs(t, err, &te)

	assert.True(t, stub.wasAborted(), "remote job must be aborted on deadline")

	_, statErr := os.Stat(filepath.Join(dest, "product.grib"))
	assert.True(t, os.IsNotExist(statErr))
	assertNoLeftovers(t, dest)
}

func TestPull_SizeMismatchIsTransient(t *testing.T) {
	stub := newMarsStub()
	stub.shortReads = true
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	_, err := b.Pull(context.Background(), testLocator, dest)
	require.Error(t, err)

	var rfe *ecmwferrors.RetrievalFailedError
	require.ErrorAs(t, err, &rfe)
	assert.ErrorContains(t, rfe.Err, "size mismatch")
	assert.Equal(t, 3, stub.submitCount())

	assertNoLeftovers(t, dest)
}

func TestPull_MalformedLocator(t *testing.T) {
	stub := newMarsStub()
	b := newTestBackend(t, stub)

	_, err := b.Pull(context.Background(), "https://example.com/nope", t.TempDir())
	require.Error(t, err)

	var mle *ecmwferrors.MalformedLocatorError
	assert.ErrorAs(t, err, &mle)
	assert.Equal(t, 0, stub.submitCount())
}

func TestPull_JournalShortCircuit(t *testing.T) {
	stub := newMarsStub()
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	first, err := b.Pull(context.Background(), testLocator, dest)
	require.NoError(t, err)
	require.Equal(t, 1, stub.submitCount())

	second, err := b.Pull(context.Background(), testLocator, dest)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.submitCount(), "second pull must not hit the service")
}

func TestPull_JournalRevalidates(t *testing.T) {
	stub := newMarsStub()
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	path, err := b.Pull(context.Background(), testLocator, dest)
	require.NoError(t, err)

	// Stale journal entry: the staged file is gone.
	require.NoError(t, os.Remove(path))

	path, err = b.Pull(context.Background(), testLocator, dest)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.submitCount(), "stale entry must trigger a fresh pull")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "surface GRIB payload", string(data))
}

func TestPull_ConcurrentDistinctLocators(t *testing.T) {
	stub := newMarsStub()
	b := newTestBackend(t, stub)
	dest := t.TempDir()

	locators := make([]string, 4)
	for i := range locators {
		locators[i] = fmt.Sprintf("ecmwfapi:product%d.grib?"+
			"class=od&stream=oper&expver=0001&type=fc&date=2024-03-01&time=12:00:00&"+
			"step=%d&levtype=sfc&param=167.128", i, i*6)
	}

	var wg sync.WaitGroup

	errs := make([]error, len(locators))

	for i, loc := range locators {
		wg.Add(1)

		go func(i int, loc string) {
			defer wg.Done()

			_, errs[i] = b.Pull(context.Background(), loc, dest)
		}(i, loc)
	}

	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "pull %d", i)
	}

	assertNoLeftovers(t, dest)
}
