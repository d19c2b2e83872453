package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
)

// entryNoPadding is the zero-pad width of the numeric part of issued numbers.
const entryNoPadding = 6

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates the document number issuer.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceIssuer {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceIssuer = (*PgxSequenceRepository)(nil)

// Next returns the next formatted number for the named sequence, e.g.
// "JE-000042". The upsert increments and reads in one statement, so two
// concurrent callers can never draw the same number. A number handed out is
// consumed even if the caller's surrounding operation fails afterwards:
// gaps are acceptable, duplicates are not.
func (r *PgxSequenceRepository) Next(ctx context.Context, sequenceName string) (string, error) {
	query := `
		INSERT INTO document_sequences (sequence_name, prefix, counter)
		VALUES ($1, $2, 1)
		ON CONFLICT (sequence_name)
		DO UPDATE SET counter = document_sequences.counter + 1
		RETURNING prefix, counter;
	`
	var prefix string
	var counter int64
	if err := r.Pool.QueryRow(ctx, query, sequenceName, defaultPrefix(sequenceName)).Scan(&prefix, &counter); err != nil {
		return "", fmt.Errorf("failed to issue next number for sequence %s: %w", sequenceName, err)
	}
	return fmt.Sprintf("%s-%0*d", prefix, entryNoPadding, counter), nil
}

// defaultPrefix derives the prefix used when a sequence row is first created.
func defaultPrefix(sequenceName string) string {
	switch sequenceName {
	case "journal_entry":
		return "JE"
	default:
		return "DOC"
	}
}
