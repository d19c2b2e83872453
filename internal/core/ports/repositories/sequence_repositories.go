package repositories

import "context"

// SequenceIssuer produces unique, formatted, monotonically increasing
// document numbers per named sequence. Issuing is an atomic external call:
// a number handed out is consumed even if the surrounding operation later
// fails (gaps are acceptable, duplicates are not).
type SequenceIssuer interface {
	// Next returns the next formatted number for the named sequence.
	Next(ctx context.Context, sequenceName string) (string, error)
}
