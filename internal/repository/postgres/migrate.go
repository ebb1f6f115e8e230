package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the documents table and its owner-scoped index if they do
// not exist yet.
//
// parent_id deliberately has no foreign key: it is a weak reference, and a
// permanent delete leaves children pointing at a missing row instead of
// cascading.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				owner_id TEXT NOT NULL,
				title VARCHAR(255) NOT NULL,
				parent_id UUID,
				content TEXT,
				cover_image TEXT,
				icon TEXT,
				is_archived BOOLEAN NOT NULL DEFAULT FALSE,
				is_published BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`, tables.Documents),
		// Serves both child lookups (owner_id, parent_id) and flat
		// owner scans (trash/search) via the btree prefix.
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_owner_parent_idx
			ON %s (owner_id, parent_id)
		`, tables.Documents, tables.Documents),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}
