package scores

import (
	"math"
	"time"
)

// Score is the backend-agnostic record every adapter produces.
// EnabledMods is always in the official bit encoding.
type Score struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	BeatmapID   string    `json:"beatmap_id"`
	Rank        string    `json:"rank"`
	PP          float64   `json:"pp"`
	Accuracy    float64   `json:"accuracy"`
	Score       int64     `json:"score"`
	MaxCombo    int       `json:"max_combo"`
	Count300    int       `json:"count_300"`
	Count100    int       `json:"count_100"`
	Count50     int       `json:"count_50"`
	CountMiss   int       `json:"count_miss"`
	CountKatu   int       `json:"count_katu"`
	CountGeki   int       `json:"count_geki"`
	EnabledMods int       `json:"enabled_mods"`
	Perfect     bool      `json:"perfect"`
	Date        time.Time `json:"date"`
}

// Passed reports whether the play was completed.
func (s Score) Passed() bool {
	return s.Rank != "F"
}

// User is the canonical profile summary.
type User struct {
	UserID        string  `json:"user_id"`
	Username      string  `json:"username"`
	Country       string  `json:"country"`
	Level         float64 `json:"level"`
	PPRank        int     `json:"pp_rank"`
	PPCountryRank int     `json:"pp_country_rank"`
	PPRaw         float64 `json:"pp_raw"`
	Accuracy      float64 `json:"accuracy"`
	PlayCount     int     `json:"playcount"`
	RankedScore   int64   `json:"ranked_score"`
	SecondsPlayed int     `json:"total_seconds_played"`
	CountRankSSH  int     `json:"count_rank_ssh"`
	CountRankSS   int     `json:"count_rank_ss"`
	CountRankSH   int     `json:"count_rank_sh"`
	CountRankS    int     `json:"count_rank_s"`
	CountRankA    int     `json:"count_rank_a"`
}

// Beatmap holds the difficulty detail rendered next to a play.
type Beatmap struct {
	BeatmapID        string  `json:"beatmap_id"`
	BeatmapSetID     string  `json:"beatmapset_id"`
	Title            string  `json:"title"`
	Artist           string  `json:"artist"`
	Version          string  `json:"version"`
	Creator          string  `json:"creator"`
	DifficultyRating float64 `json:"difficultyrating"`
	MaxCombo         int     `json:"max_combo"`
	BPM              float64 `json:"bpm"`
	TotalLength      int     `json:"total_length"`
	CircleSize       float64 `json:"diff_size"`
	ApproachRate     float64 `json:"diff_approach"`
	OverallDiff      float64 `json:"diff_overall"`
	Drain            float64 `json:"diff_drain"`
}

// Accuracy computes the accuracy percentage of a play for the given ruleset,
// floored to two decimals.
func Accuracy(mode Mode, s Score) float64 {
	n300 := float64(s.Count300)
	n100 := float64(s.Count100)
	n50 := float64(s.Count50)
	miss := float64(s.CountMiss)
	katu := float64(s.CountKatu)
	geki := float64(s.CountGeki)

	var hit, total float64
	switch mode {
	case Taiko:
		hit = n300 + 0.5*n100
		total = n300 + n100 + miss
	case Catch:
		hit = n300 + n100 + n50
		total = n300 + n100 + n50 + katu + miss
	case Mania:
		hit = 50*n50 + 100*n100 + 200*katu + 300*(n300+geki)
		total = 300 * (n50 + n100 + n300 + miss + katu + geki)
	default:
		hit = 50*n50 + 100*n100 + 300*n300
		total = 300 * (n50 + n100 + n300 + miss)
	}

	if total == 0 {
		return 0
	}
	return math.Floor(hit/total*10000) / 100
}

// WithAccuracy returns a copy of the scores with Accuracy filled in.
func WithAccuracy(mode Mode, in []Score) []Score {
	out := make([]Score, len(in))
	for i, s := range in {
		s.Accuracy = Accuracy(mode, s)
		out[i] = s
	}
	return out
}
