package backends

import (
	"context"
	"net/url"
	"strconv"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

type gatariUsers struct {
	Users []gatariUser `json:"users"`
}

type gatariUser struct {
	ID       apiID  `json:"id"`
	Username string `json:"username"`
}

type gatariScores struct {
	Scores []gatariScore `json:"scores"`
}

type gatariBeatmap struct {
	BeatmapID    apiID `json:"beatmap_id"`
	BeatmapSetID apiID `json:"beatmapset_id"`
}

type gatariScore struct {
	Mods       int           `json:"mods"`
	Count300   int           `json:"count_300"`
	Count100   int           `json:"count_100"`
	Count50    int           `json:"count_50"`
	CountGekis int           `json:"count_gekis"`
	CountKatu  int           `json:"count_katu"`
	CountMiss  int           `json:"count_miss"`
	MaxCombo   int           `json:"max_combo"`
	PP         float64       `json:"pp"`
	Ranking    string        `json:"ranking"`
	Score      int64         `json:"score"`
	Time       apiTime       `json:"time"`
	FullCombo  bool          `json:"full_combo"`
	Beatmap    gatariBeatmap `json:"beatmap"`
}

// Gatari is the Gatari mirror backend. Scores are keyed by numeric user id,
// so every listing starts with a user lookup.
type Gatari struct {
	client  *client
	baseURL string
}

func (*Gatari) sealed() {}

func (*Gatari) Server() scores.Server { return scores.Gatari }

func (g *Gatari) Best(ctx context.Context, username string, q Query) (Plays, error) {
	return g.plays(ctx, username, "best", func(v url.Values) {
		v.Set("l", strconv.Itoa(limitOr(q.Limit, 100)))
		v.Set("mode", strconv.Itoa(int(q.Mode)))
	})
}

func (g *Gatari) Recent(ctx context.Context, username string, q Query) (Plays, error) {
	return g.plays(ctx, username, "recent", func(v url.Values) {
		v.Set("l", strconv.Itoa(limitOr(q.Limit, 50)))
		v.Set("mode", strconv.Itoa(int(q.Mode)))
		v.Set("f", "1")
	})
}

func (g *Gatari) Lookup(ctx context.Context, username string) (string, bool, error) {
	user, found, err := g.user(ctx, username)
	return string(user.ID), found, err
}

func (g *Gatari) user(ctx context.Context, username string) (gatariUser, bool, error) {
	lookup := url.Values{}
	lookup.Set("u", username)

	var users gatariUsers
	if err := g.client.getJSON(ctx, "users_get", g.baseURL+"/users/get?"+lookup.Encode(), &users); err != nil {
		return gatariUser{}, false, err
	}
	if len(users.Users) == 0 {
		return gatariUser{}, false, nil
	}
	return users.Users[0], true, nil
}

func (g *Gatari) plays(ctx context.Context, username, kind string, params func(url.Values)) (Plays, error) {
	user, found, err := g.user(ctx, username)
	if err != nil || !found {
		return Plays{}, err
	}

	v := url.Values{}
	v.Set("id", string(user.ID))
	params(v)

	var payload gatariScores
	if err := g.client.getJSON(ctx, "scores_"+kind, g.baseURL+"/user/scores/"+kind+"?"+v.Encode(), &payload); err != nil {
		return Plays{}, err
	}
	return Plays{Found: true, UserID: string(user.ID), Scores: normalizeGatari(user, payload)}, nil
}

func (*Gatari) AvatarURL(userID string) string { return "https://a.gatari.pw/" + userID }

func (*Gatari) ProfileURL(userID string) string { return "https://osu.gatari.pw/u/" + userID }

func (*Gatari) NotFoundMessage(username string) string {
	return notFound(username, "Gatari servers", idHint)
}

// normalizeGatari maps Gatari scores onto canonical records. Gatari already
// uses the official mods encoding.
func normalizeGatari(user gatariUser, payload gatariScores) []scores.Score {
	out := make([]scores.Score, 0, len(payload.Scores))
	for _, p := range payload.Scores {
		out = append(out, scores.Score{
			UserID:      string(user.ID),
			Username:    user.Username,
			BeatmapID:   string(p.Beatmap.BeatmapID),
			Rank:        p.Ranking,
			PP:          p.PP,
			Score:       p.Score,
			MaxCombo:    p.MaxCombo,
			Count300:    p.Count300,
			Count100:    p.Count100,
			Count50:     p.Count50,
			CountMiss:   p.CountMiss,
			CountKatu:   p.CountKatu,
			CountGeki:   p.CountGekis,
			EnabledMods: p.Mods,
			Perfect:     p.FullCombo,
			Date:        p.Time.Time,
		})
	}
	return out
}
