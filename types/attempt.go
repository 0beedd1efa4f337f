// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package types

// AttemptStatus is the lifecycle state of one retrieval attempt.
type AttemptStatus string

const (
	AttemptPending    AttemptStatus = "pending"
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptStaged     AttemptStatus = "staged"
	AttemptFailed     AttemptStatus = "failed"
)

// RetrievalAttempt is the transient state of a single pull. It is owned
// exclusively by one Pull call and never persisted or shared between
// goroutines.
type RetrievalAttempt struct {
	Locator     RemoteLocator
	StagingPath string
	Status      AttemptStatus
	Retries     int
}
