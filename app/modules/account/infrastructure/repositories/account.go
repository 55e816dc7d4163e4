package accountdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new linked account repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByDiscordID retrieves the link of one chat user.
func (r *Impl) GetByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*LinkedAccount, error) {
	db = r.resolveDB(db)
	account := new(LinkedAccount)
	err := db.NewSelect().
		Model(account).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("accountdb.GetByDiscordID: %w", err)
	}
	return account, nil
}

// Upsert creates or updates a link.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, account *LinkedAccount) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := db.NewInsert().
		Model(account).
		On("CONFLICT (discord_id) DO UPDATE").
		Set("osu_username = EXCLUDED.osu_username").
		Set("mode = EXCLUDED.mode").
		Set("type = EXCLUDED.type").
		Set("osu_user_id = CASE WHEN la.osu_username = EXCLUDED.osu_username AND la.type = EXCLUDED.type THEN la.osu_user_id END").
		Set("verified_at = CASE WHEN la.osu_username = EXCLUDED.osu_username AND la.type = EXCLUDED.type THEN la.verified_at END").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("accountdb.Upsert: %w", err)
	}
	return nil
}

// MarkVerified records the upstream user id of a confirmed link.
func (r *Impl) MarkVerified(ctx context.Context, db bun.IDB, discordID, osuUserID string) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	result, err := db.NewUpdate().
		Model((*LinkedAccount)(nil)).
		Set("osu_user_id = ?", osuUserID).
		Set("verified_at = ?", now).
		Set("updated_at = ?", now).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("accountdb.MarkVerified: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("accountdb.MarkVerified: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
