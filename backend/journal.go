// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"encoding/json"
	"time"

	ipfsdatastore "github.com/ipfs/go-datastore"
	"github.com/opencontainers/go-digest"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/stcorp/muninn-ecmwfmars/internal/datastore"
)

// journalEntry is the persisted record of one completed pull.
type journalEntry struct {
	Locator  string        `json:"locator"`
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Digest   digest.Digest `json:"digest"`
	StagedAt time.Time     `json:"staged_at"`
}

// journal records completed pulls so repeated pulls of the same locator to
// the same destination short-circuit without touching the service. Entries
// are revalidated against the file on disk before they are trusted; a stale
// entry is dropped and the pull proceeds.
type journal struct {
	ds     datastore.Datastore
	fs     afero.Fs
	logger zerolog.Logger
}

func newJournal(ds datastore.Datastore, fs afero.Fs, logger zerolog.Logger) *journal {
	if ds == nil {
		return nil
	}

	return &journal{ds: ds, fs: fs, logger: logger}
}

func journalKey(locator string) ipfsdatastore.Key {
	return ipfsdatastore.NewKey("pulls/" + digest.FromString(locator).Encoded())
}

// lookup returns the staged path for locator if a valid journal entry
// covers it.
func (j *journal) lookup(ctx context.Context, locator, path string) (string, bool) {
	if j == nil {
		return "", false
	}

	data, err := j.ds.Get(ctx, journalKey(locator))
	if err != nil {
		return "", false
	}

	var entry journalEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		j.forget(ctx, locator)

		return "", false
	}

	if entry.Path != path || !j.validate(entry) {
		j.forget(ctx, locator)

		return "", false
	}

	return entry.Path, true
}

// validate re-checks the staged file against the journal entry: it must
// still exist with the recorded size and digest.
func (j *journal) validate(entry journalEntry) bool {
	info, err := j.fs.Stat(entry.Path)
	if err != nil || info.Size() != entry.Size {
		return false
	}

	f, err := j.fs.Open(entry.Path)
	if err != nil {
		return false
	}
	defer f.Close()

	dgst, err := digest.FromReader(f)
	if err != nil {
		return false
	}

	return dgst == entry.Digest
}

func (j *journal) record(ctx context.Context, entry journalEntry) {
	if j == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := j.ds.Put(ctx, journalKey(entry.Locator), data); err != nil {
		j.logger.Warn().Err(err).Str("path", entry.Path).Msg("failed to record pull in journal")
	}
}

func (j *journal) forget(ctx context.Context, locator string) {
	if j == nil {
		return
	}

	_ = j.ds.Delete(ctx, journalKey(locator))
}
