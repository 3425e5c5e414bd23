package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// nextDocumentNumber reserves the next number for a document kind and year
// from the document_sequences table and formats it as <prefix>-<year>-NNNNN.
// The upsert increments and returns the counter in a single statement, so two
// transactions reserving concurrently always get distinct numbers. Must run
// inside the transaction that persists the document: a rollback returns the
// reservation as a gap, never as a duplicate.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, kind, prefix string, year int) (string, error) {
	var seq int64
	err := db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (kind, year, next_value)
		VALUES (?, ?, 1)
		ON CONFLICT (kind, year)
		DO UPDATE SET next_value = document_sequences.next_value + 1
		RETURNING next_value`,
		kind, year,
	).Scan(&seq).Error
	if err != nil {
		return "", fmt.Errorf("failed to reserve %s number: %w", kind, err)
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq), nil
}
