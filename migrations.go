package gameshelf

import (
	"context"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const migrationsDir = "data/sql/migrations"

// RunMigrations executes the embedded up migrations in filename order.
// Each file runs inside its own transaction; statements are idempotent
// (CREATE TABLE IF NOT EXISTS) so re-running on boot is safe.
func RunMigrations(ctx context.Context, db *bun.DB, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to read migrations directory")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+name)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to read migration "+name)
		}

		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.ExecContext(ctx, string(raw))
			return err
		})
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "migration failed: "+name)
		}

		logger.Debug("migration applied: %s", name)
	}

	return nil
}
