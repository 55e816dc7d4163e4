package backends

import (
	"context"
	"net/url"
	"strconv"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

// officialScore is one entry of get_user_best / get_user_recent. Every
// numeric field arrives as a string.
type officialScore struct {
	BeatmapID   string  `json:"beatmap_id"`
	Score       string  `json:"score"`
	MaxCombo    string  `json:"maxcombo"`
	Count50     string  `json:"count50"`
	Count100    string  `json:"count100"`
	Count300    string  `json:"count300"`
	CountMiss   string  `json:"countmiss"`
	CountKatu   string  `json:"countkatu"`
	CountGeki   string  `json:"countgeki"`
	Perfect     string  `json:"perfect"`
	EnabledMods string  `json:"enabled_mods"`
	UserID      string  `json:"user_id"`
	Date        apiTime `json:"date"`
	Rank        string  `json:"rank"`
	PP          string  `json:"pp"`
}

// officialUser is one entry of get_user.
type officialUser struct {
	UserID             string `json:"user_id"`
	Username           string `json:"username"`
	Country            string `json:"country"`
	Level              string `json:"level"`
	PPRank             string `json:"pp_rank"`
	PPCountryRank      string `json:"pp_country_rank"`
	PPRaw              string `json:"pp_raw"`
	Accuracy           string `json:"accuracy"`
	PlayCount          string `json:"playcount"`
	RankedScore        string `json:"ranked_score"`
	TotalSecondsPlayed string `json:"total_seconds_played"`
	CountRankSSH       string `json:"count_rank_ssh"`
	CountRankSS        string `json:"count_rank_ss"`
	CountRankSH        string `json:"count_rank_sh"`
	CountRankS         string `json:"count_rank_s"`
	CountRankA         string `json:"count_rank_a"`
}

// Official is the osu! API v1 backend.
type Official struct {
	client  *client
	baseURL string
	apiKey  string
}

func (*Official) sealed() {}

func (*Official) Server() scores.Server { return scores.Official }

func (o *Official) Best(ctx context.Context, username string, q Query) (Plays, error) {
	var payload []officialScore
	if err := o.client.getJSON(ctx, "get_user_best", o.scoresURL("get_user_best", username, q.Mode, limitOr(q.Limit, 100)), &payload); err != nil {
		return Plays{}, err
	}
	list := normalizeOfficial(username, payload)
	return Plays{Found: len(list) > 0, UserID: firstUserID(list), Scores: list}, nil
}

// Recent cannot tell an unknown user from an idle one; both come back empty.
func (o *Official) Recent(ctx context.Context, username string, q Query) (Plays, error) {
	var payload []officialScore
	if err := o.client.getJSON(ctx, "get_user_recent", o.scoresURL("get_user_recent", username, q.Mode, limitOr(q.Limit, 50)), &payload); err != nil {
		return Plays{}, err
	}
	list := normalizeOfficial(username, payload)
	return Plays{Found: true, UserID: firstUserID(list), Scores: list}, nil
}

func (o *Official) Lookup(ctx context.Context, username string) (string, bool, error) {
	user, err := o.User(ctx, username, scores.Standard)
	if err != nil || user == nil {
		return "", false, err
	}
	return user.UserID, true, nil
}

// User fetches the profile summary; nil means the user does not exist.
func (o *Official) User(ctx context.Context, username string, mode scores.Mode) (*scores.User, error) {
	v := url.Values{}
	v.Set("k", o.apiKey)
	v.Set("u", username)
	v.Set("m", strconv.Itoa(int(mode)))

	var payload []officialUser
	if err := o.client.getJSON(ctx, "get_user", o.baseURL+"/api/get_user?"+v.Encode(), &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	u := normalizeOfficialUser(payload[0])
	return &u, nil
}

func (*Official) AvatarURL(userID string) string { return "https://a.ppy.sh/" + userID }

func (*Official) ProfileURL(userID string) string { return "https://osu.ppy.sh/users/" + userID }

func (*Official) NotFoundMessage(username string) string {
	return notFound(username, "official osu! servers", idHint)
}

func (o *Official) scoresURL(endpoint, username string, mode scores.Mode, limit int) string {
	v := url.Values{}
	v.Set("k", o.apiKey)
	v.Set("u", username)
	v.Set("limit", strconv.Itoa(limit))
	v.Set("m", strconv.Itoa(int(mode)))
	return o.baseURL + "/api/" + endpoint + "?" + v.Encode()
}

// normalizeOfficial maps official score entries onto canonical records. The
// API does not echo the username, so the requested one is used.
func normalizeOfficial(username string, payload []officialScore) []scores.Score {
	out := make([]scores.Score, 0, len(payload))
	for _, p := range payload {
		out = append(out, scores.Score{
			UserID:      p.UserID,
			Username:    username,
			BeatmapID:   p.BeatmapID,
			Rank:        p.Rank,
			PP:          atof(p.PP),
			Score:       atoi64(p.Score),
			MaxCombo:    atoi(p.MaxCombo),
			Count300:    atoi(p.Count300),
			Count100:    atoi(p.Count100),
			Count50:     atoi(p.Count50),
			CountMiss:   atoi(p.CountMiss),
			CountKatu:   atoi(p.CountKatu),
			CountGeki:   atoi(p.CountGeki),
			EnabledMods: atoi(p.EnabledMods),
			Perfect:     p.Perfect == "1",
			Date:        p.Date.Time,
		})
	}
	return out
}

func normalizeOfficialUser(p officialUser) scores.User {
	return scores.User{
		UserID:        p.UserID,
		Username:      p.Username,
		Country:       p.Country,
		Level:         atof(p.Level),
		PPRank:        atoi(p.PPRank),
		PPCountryRank: atoi(p.PPCountryRank),
		PPRaw:         atof(p.PPRaw),
		Accuracy:      atof(p.Accuracy),
		PlayCount:     atoi(p.PlayCount),
		RankedScore:   atoi64(p.RankedScore),
		SecondsPlayed: atoi(p.TotalSecondsPlayed),
		CountRankSSH:  atoi(p.CountRankSSH),
		CountRankSS:   atoi(p.CountRankSS),
		CountRankSH:   atoi(p.CountRankSH),
		CountRankS:    atoi(p.CountRankS),
		CountRankA:    atoi(p.CountRankA),
	}
}

func firstUserID(list []scores.Score) string {
	if len(list) == 0 {
		return ""
	}
	return list[0].UserID
}
