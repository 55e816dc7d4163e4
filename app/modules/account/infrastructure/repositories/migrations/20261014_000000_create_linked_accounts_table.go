package accountmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating linked_accounts table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS linked_accounts (
					discord_id VARCHAR(20) PRIMARY KEY,
					osu_username VARCHAR(64) NOT NULL,
					mode SMALLINT NOT NULL DEFAULT 0 CHECK (mode BETWEEN 0 AND 3),
					type SMALLINT NOT NULL DEFAULT 0 CHECK (type BETWEEN 0 AND 2),
					osu_user_id VARCHAR(32),
					verified_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_linked_accounts_osu_username ON linked_accounts(lower(osu_username));
			`); err != nil {
				return fmt.Errorf("failed to create linked_accounts table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping linked_accounts table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS linked_accounts;`); err != nil {
			return fmt.Errorf("failed to drop linked_accounts table: %w", err)
		}
		return nil
	})
}
