package backends

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

type akatsukiUser struct {
	Code     int    `json:"code"`
	ID       apiID  `json:"id"`
	Username string `json:"username"`
}

type akatsukiScores struct {
	Code   int             `json:"code"`
	Scores []akatsukiScore `json:"scores"`
}

type akatsukiBeatmap struct {
	BeatmapID    apiID  `json:"beatmap_id"`
	BeatmapSetID apiID  `json:"beatmapset_id"`
	SongName     string `json:"song_name"`
	MaxCombo     int    `json:"max_combo"`
}

type akatsukiScore struct {
	Mods      int             `json:"mods"`
	Count300  int             `json:"count_300"`
	Count100  int             `json:"count_100"`
	Count50   int             `json:"count_50"`
	CountGeki int             `json:"count_geki"`
	CountKatu int             `json:"count_katu"`
	CountMiss int             `json:"count_miss"`
	MaxCombo  int             `json:"max_combo"`
	FullCombo bool            `json:"full_combo"`
	PP        float64         `json:"pp"`
	Rank      string          `json:"rank"`
	Score     int64           `json:"score"`
	Time      apiTime         `json:"time"`
	Beatmap   akatsukiBeatmap `json:"beatmap"`
}

// Akatsuki is the Akatsuki mirror backend. Relax and vanilla leaderboards
// are separate and chosen by the rx request parameter.
type Akatsuki struct {
	client  *client
	baseURL string
}

func (*Akatsuki) sealed() {}

func (*Akatsuki) Server() scores.Server { return scores.Akatsuki }

func (a *Akatsuki) Best(ctx context.Context, username string, q Query) (Plays, error) {
	return a.plays(ctx, username, "best", q, func(v url.Values) {
		v.Set("l", strconv.Itoa(limitOr(q.Limit, 100)))
		v.Set("mode", strconv.Itoa(int(q.Mode)))
	})
}

func (a *Akatsuki) Recent(ctx context.Context, username string, q Query) (Plays, error) {
	return a.plays(ctx, username, "recent", q, func(v url.Values) {
		v.Set("l", strconv.Itoa(limitOr(q.Limit, 50)))
		v.Set("mode", strconv.Itoa(int(q.Mode)))
	})
}

func (a *Akatsuki) Lookup(ctx context.Context, username string) (string, bool, error) {
	user, found, err := a.user(ctx, username)
	return string(user.ID), found, err
}

func (a *Akatsuki) user(ctx context.Context, username string) (akatsukiUser, bool, error) {
	lookup := url.Values{}
	lookup.Set("name", username)

	var user akatsukiUser
	if err := a.client.getJSON(ctx, "users", a.baseURL+"/api/v1/users?"+lookup.Encode(), &user, http.StatusNotFound); err != nil {
		return akatsukiUser{}, false, err
	}
	if user.Code == http.StatusNotFound || user.ID == "" {
		return akatsukiUser{}, false, nil
	}
	return user, true, nil
}

func (a *Akatsuki) plays(ctx context.Context, username, kind string, q Query, params func(url.Values)) (Plays, error) {
	user, found, err := a.user(ctx, username)
	if err != nil || !found {
		return Plays{}, err
	}

	v := url.Values{}
	v.Set("name", username)
	v.Set("rx", relaxFlag(q.Relax))
	params(v)

	var payload akatsukiScores
	if err := a.client.getJSON(ctx, "scores_"+kind, a.baseURL+"/api/v1/users/scores/"+kind+"?"+v.Encode(), &payload); err != nil {
		return Plays{}, err
	}
	return Plays{Found: true, UserID: string(user.ID), Scores: normalizeAkatsuki(user, payload, q.Relax)}, nil
}

func (*Akatsuki) AvatarURL(userID string) string { return "https://a.akatsuki.pw/" + userID }

func (*Akatsuki) ProfileURL(userID string) string { return "https://akatsuki.pw/u/" + userID }

func (*Akatsuki) NotFoundMessage(username string) string {
	return notFound(username, "Akatsuki servers", "")
}

// normalizeAkatsuki maps Akatsuki scores onto canonical records. Relax
// leaderboards do not report the RX bit, so it is restored from the request.
func normalizeAkatsuki(user akatsukiUser, payload akatsukiScores, relax bool) []scores.Score {
	out := make([]scores.Score, 0, len(payload.Scores))
	for _, p := range payload.Scores {
		bits := p.Mods
		if relax {
			bits |= mods.Relax
		}
		out = append(out, scores.Score{
			UserID:      string(user.ID),
			Username:    user.Username,
			BeatmapID:   string(p.Beatmap.BeatmapID),
			Rank:        p.Rank,
			PP:          p.PP,
			Score:       p.Score,
			MaxCombo:    p.MaxCombo,
			Count300:    p.Count300,
			Count100:    p.Count100,
			Count50:     p.Count50,
			CountMiss:   p.CountMiss,
			CountKatu:   p.CountKatu,
			CountGeki:   p.CountGeki,
			EnabledMods: bits,
			Perfect:     p.FullCombo,
			Date:        p.Time.Time,
		})
	}
	return out
}

func relaxFlag(relax bool) string {
	if relax {
		return "1"
	}
	return "0"
}
