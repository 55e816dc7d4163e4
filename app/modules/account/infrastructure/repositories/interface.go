package accountdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for linked accounts.
//
// Error semantics:
//   - ErrNotFound: no row for the discord id (GetByDiscordID, MarkVerified)
//   - other errors: infrastructure failures
type Repository interface {
	GetByDiscordID(ctx context.Context, db bun.IDB, discordID string) (*LinkedAccount, error)

	// Upsert inserts or replaces the link. Changing the username clears the
	// verification state.
	Upsert(ctx context.Context, db bun.IDB, account *LinkedAccount) error

	MarkVerified(ctx context.Context, db bun.IDB, discordID, osuUserID string) error
}
