package accountdb

import (
	"time"

	"github.com/uptrace/bun"
)

// LinkedAccount ties a chat user to an osu! username on one backend.
type LinkedAccount struct {
	bun.BaseModel `bun:"table:linked_accounts,alias:la"`
	DiscordID     string     `bun:"discord_id,pk" json:"discord_id"`
	OsuUsername   string     `bun:"osu_username,notnull" json:"osu_username"`
	Mode          int        `bun:"mode,notnull,default:0" json:"mode"`
	Type          int        `bun:"type,notnull,default:0" json:"type"`
	OsuUserID     *string    `bun:"osu_user_id,nullzero" json:"osu_user_id,omitempty"`
	VerifiedAt    *time.Time `bun:"verified_at,nullzero" json:"verified_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
