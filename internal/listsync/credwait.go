package listsync

import "time"

const (
	// CredentialRetryInterval is the fixed backoff between credential polls
	// when a fetch is attempted before any token exists.
	CredentialRetryInterval = 200 * time.Millisecond

	// CredentialRetryLimit bounds the polls so a missing credential cannot
	// turn into unbounded silent polling.
	CredentialRetryLimit = 25
)

// CredentialWait tracks the bounded wait for a credential to appear. While
// waiting, no authenticated call is issued (a guaranteed 401 round trip) and
// the visible list is left untouched.
type CredentialWait struct {
	attempts int
}

// Retry consumes one attempt; false means the budget is exhausted and the
// caller should surface an authentication problem instead of polling again.
func (w *CredentialWait) Retry() bool {
	if w.attempts >= CredentialRetryLimit {
		return false
	}
	w.attempts++
	return true
}

// Reset clears the attempt counter, typically after a credential appeared.
func (w *CredentialWait) Reset() { w.attempts = 0 }

// Attempts reports how many polls have been consumed.
func (w *CredentialWait) Attempts() int { return w.attempts }
