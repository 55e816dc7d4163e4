package backends

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

var (
	// ErrUnknownServer is returned when no backend serves the requested type.
	ErrUnknownServer = errors.New("unknown server type")
	// ErrUpstreamStatus wraps unexpected HTTP status codes from an upstream API.
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	// ErrBeatmapNotFound is returned when beatmap detail comes back empty.
	ErrBeatmapNotFound = errors.New("beatmap not found")
)

// Query carries the per-invocation parameters a backend needs.
type Query struct {
	Mode  scores.Mode
	Relax bool
	Limit int
}

// Plays is a normalized score listing. Found is false when the backend
// reported that the user does not exist.
type Plays struct {
	Found  bool
	UserID string
	Scores []scores.Score
}

// Backend is one upstream statistics service. The set of implementations is
// closed: Official, Gatari and Akatsuki.
type Backend interface {
	Server() scores.Server
	// Lookup resolves username to the backend's user id. found is false when
	// the user does not exist.
	Lookup(ctx context.Context, username string) (userID string, found bool, err error)
	// Best returns the user's top plays, best first.
	Best(ctx context.Context, username string, q Query) (Plays, error)
	// Recent returns the user's latest plays, newest first.
	Recent(ctx context.Context, username string, q Query) (Plays, error)
	AvatarURL(userID string) string
	ProfileURL(userID string) string
	// NotFoundMessage is the branded text shown when username does not exist.
	NotFoundMessage(username string) string

	sealed()
}

// Config is the upstream configuration shared by all backends.
type Config struct {
	APIKey          string
	OfficialBaseURL string
	GatariBaseURL   string
	AkatsukiBaseURL string
	Timeout         time.Duration
	RatePerSecond   float64
	Burst           int
}

// DefaultConfig points at the public services.
func DefaultConfig() Config {
	return Config{
		OfficialBaseURL: "https://osu.ppy.sh",
		GatariBaseURL:   "https://api.gatari.pw",
		AkatsukiBaseURL: "https://akatsuki.pw",
		Timeout:         10 * time.Second,
		RatePerSecond:   5,
		Burst:           10,
	}
}

// Registry owns one instance of each backend plus the beatmap lookup.
type Registry struct {
	official *Official
	gatari   *Gatari
	akatsuki *Akatsuki
	beatmaps *Beatmaps
}

// NewRegistry builds every backend with its own rate-limited client.
func NewRegistry(cfg Config, deps ClientDeps) *Registry {
	officialClient := newClient("official", cfg, deps)
	return &Registry{
		official: &Official{client: officialClient, baseURL: cfg.OfficialBaseURL, apiKey: cfg.APIKey},
		gatari:   &Gatari{client: newClient("gatari", cfg, deps), baseURL: cfg.GatariBaseURL},
		akatsuki: &Akatsuki{client: newClient("akatsuki", cfg, deps), baseURL: cfg.AkatsukiBaseURL},
		beatmaps: &Beatmaps{client: officialClient, baseURL: cfg.OfficialBaseURL, apiKey: cfg.APIKey},
	}
}

// For selects the backend for a server type.
func (r *Registry) For(server scores.Server) (Backend, error) {
	switch server {
	case scores.Official:
		return r.official, nil
	case scores.Gatari:
		return r.gatari, nil
	case scores.Akatsuki:
		return r.akatsuki, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownServer, int(server))
	}
}

// All returns the backends in server order.
func (r *Registry) All() []Backend {
	return []Backend{r.official, r.gatari, r.akatsuki}
}

// Official exposes the official backend for profile lookups.
func (r *Registry) Official() *Official {
	return r.official
}

// Beatmaps returns the beatmap detail lookup.
func (r *Registry) Beatmaps() *Beatmaps {
	return r.beatmaps
}

func notFound(username, where, hint string) string {
	return fmt.Sprintf(":red_circle: **The username `%s` is not valid**\nThe username used or linked does not exist on `%s`.%s", username, where, hint)
}

const idHint = " Try using the id of the user instead of the username"

func limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
