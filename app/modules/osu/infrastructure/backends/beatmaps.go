package backends

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

type officialBeatmap struct {
	BeatmapID        string `json:"beatmap_id"`
	BeatmapSetID     string `json:"beatmapset_id"`
	Title            string `json:"title"`
	Artist           string `json:"artist"`
	Version          string `json:"version"`
	Creator          string `json:"creator"`
	DifficultyRating string `json:"difficultyrating"`
	MaxCombo         string `json:"max_combo"`
	BPM              string `json:"bpm"`
	TotalLength      string `json:"total_length"`
	DiffSize         string `json:"diff_size"`
	DiffApproach     string `json:"diff_approach"`
	DiffOverall      string `json:"diff_overall"`
	DiffDrain        string `json:"diff_drain"`
}

// Beatmaps looks up beatmap detail on the official API. Mirrors serve the
// same beatmaps, so one lookup covers every backend.
type Beatmaps struct {
	client  *client
	baseURL string
	apiKey  string
}

// Beatmap fetches one beatmap with the difficulty adjusted for the
// difficulty-changing subset of bitfield.
func (b *Beatmaps) Beatmap(ctx context.Context, id string, mode scores.Mode, bitfield int) (scores.Beatmap, error) {
	v := url.Values{}
	v.Set("k", b.apiKey)
	v.Set("b", id)
	v.Set("a", "1")
	v.Set("m", strconv.Itoa(int(mode)))
	v.Set("mods", strconv.Itoa(mods.DifficultyChanging(bitfield)))

	var payload []officialBeatmap
	if err := b.client.getJSON(ctx, "get_beatmaps", b.baseURL+"/api/get_beatmaps?"+v.Encode(), &payload); err != nil {
		return scores.Beatmap{}, err
	}
	if len(payload) == 0 {
		return scores.Beatmap{}, fmt.Errorf("%w: %s", ErrBeatmapNotFound, id)
	}
	return normalizeBeatmap(payload[0]), nil
}

// ForScores fetches the beatmap of every play concurrently. The result is
// index-aligned with plays; any failure fails the whole batch.
func (b *Beatmaps) ForScores(ctx context.Context, mode scores.Mode, plays []scores.Score) ([]scores.Beatmap, error) {
	out := make([]scores.Beatmap, len(plays))
	g, gctx := errgroup.WithContext(ctx)
	for i, play := range plays {
		g.Go(func() error {
			bm, err := b.Beatmap(gctx, play.BeatmapID, mode, play.EnabledMods)
			if err != nil {
				return err
			}
			out[i] = bm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeBeatmap(p officialBeatmap) scores.Beatmap {
	return scores.Beatmap{
		BeatmapID:        p.BeatmapID,
		BeatmapSetID:     p.BeatmapSetID,
		Title:            p.Title,
		Artist:           p.Artist,
		Version:          p.Version,
		Creator:          p.Creator,
		DifficultyRating: atof(p.DifficultyRating),
		MaxCombo:         atoi(p.MaxCombo),
		BPM:              atof(p.BPM),
		TotalLength:      atoi(p.TotalLength),
		CircleSize:       atof(p.DiffSize),
		ApproachRate:     atof(p.DiffApproach),
		OverallDiff:      atof(p.DiffOverall),
		Drain:            atof(p.DiffDrain),
	}
}
