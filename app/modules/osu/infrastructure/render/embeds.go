// Package render turns command outcomes into chat responses.
package render

import (
	"fmt"
	"strings"
	"time"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	osuservice "github.com/moorad/the-beautiful-bot/app/modules/osu/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/arguments"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
)

const (
	ColorBest      = 3066993
	ColorRecent    = 12352831
	ColorChangelog = 1492731
)

// NoPlays is the description of a best embed with nothing to show.
const NoPlays = "No plays were found :flushed:"

func beatmapURL(b scores.Beatmap) string {
	return fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%s#osu/%s", b.BeatmapSetID, b.BeatmapID)
}

// avatar appends a cache-busting timestamp; chat clients cache avatars by URL.
func avatar(backend backends.Backend, userID string, now time.Time) string {
	return fmt.Sprintf("%s?%d", backend.AvatarURL(userID), now.UnixMilli())
}

func combo(play scores.Score, b scores.Beatmap) string {
	if b.MaxCombo > 0 {
		return fmt.Sprintf("(**%sx**/**%sx**)", Number(int64(play.MaxCombo)), Number(int64(b.MaxCombo)))
	}
	return fmt.Sprintf("(**%sx**)", Number(int64(play.MaxCombo)))
}

func hits(play scores.Score) string {
	return fmt.Sprintf("[%d/%d/%d/%d]", play.Count300, play.Count100, play.Count50, play.CountMiss)
}

// Best renders the top plays embed.
func Best(b *osuservice.BestPlays, now time.Time) *chatevents.Embed {
	embed := &chatevents.Embed{
		Color: ColorBest,
		Author: &chatevents.EmbedAuthor{
			Name: fmt.Sprintf("Here is %s's top %d osu! %s plays:", b.Username, len(b.Plays), b.Options.Mode),
			URL:  b.Backend.ProfileURL(b.UserID),
		},
		Thumbnail:   &chatevents.EmbedImage{URL: avatar(b.Backend, b.UserID, now)},
		Description: NoPlays,
	}

	if len(b.Plays) == 0 {
		return embed
	}

	lines := make([]string, 0, len(b.Plays))
	for i, play := range b.Plays {
		bm := b.Beatmaps[i]
		lines = append(lines, fmt.Sprintf(
			"**[%s [%s]](%s) +%s**\n| %s • **%spp** • %s%% • [%s★]\n| %s • **%s** • %s\n| Achieved: **%s**\n",
			bm.Title, bm.Version, beatmapURL(bm), mods.ToString(play.EnabledMods),
			Grade(play.Rank), Floor2(play.PP), Floor2(play.Accuracy), Round2(bm.DifficultyRating),
			combo(play, bm), Number(play.Score), hits(play),
			Ago(play.Date, now),
		))
	}
	embed.Description = strings.Join(lines, " ")
	return embed
}

// Recent renders a single recent play.
func Recent(r *osuservice.RecentPlay, now time.Time) *chatevents.Embed {
	play, bm := r.Play, r.Beatmap
	return &chatevents.Embed{
		Title: fmt.Sprintf("%s [%s] +%s", bm.Title, bm.Version, mods.ToString(play.EnabledMods)),
		URL:   beatmapURL(bm),
		Color: ColorRecent,
		Author: &chatevents.EmbedAuthor{
			Name:    fmt.Sprintf("Recent osu! %s play by %s", r.Options.Mode, r.Username),
			URL:     r.Backend.ProfileURL(r.UserID),
			IconURL: avatar(r.Backend, r.UserID, now),
		},
		Thumbnail: &chatevents.EmbedImage{URL: fmt.Sprintf("https://b.ppy.sh/thumb/%sl.jpg", bm.BeatmapSetID)},
		Description: fmt.Sprintf(
			"| %s • **%spp** • %s%% • [%s★]\n| %s • **%s** • %s\n| %s by %s • %s bpm • %s",
			Grade(play.Rank), Floor2(play.PP), Floor2(play.Accuracy), Round2(bm.DifficultyRating),
			combo(play, bm), Number(play.Score), hits(play),
			bm.Artist, bm.Creator, Round2(bm.BPM), Duration(bm.TotalLength),
		),
		Footer: &chatevents.EmbedFooter{Text: "Played " + Ago(play.Date, now)},
	}
}

// User renders the profile summary.
func User(c *osuservice.UserCard, now time.Time) *chatevents.Embed {
	u := c.User
	return &chatevents.Embed{
		Color: ColorBest,
		Author: &chatevents.EmbedAuthor{
			Name: fmt.Sprintf("osu! %s profile of %s", c.Mode, u.Username),
			URL:  c.Backend.ProfileURL(u.UserID),
		},
		Thumbnail: &chatevents.EmbedImage{URL: avatar(c.Backend, u.UserID, now)},
		Fields: []chatevents.EmbedField{
			{Name: "Global Rank", Value: "#" + Number(int64(u.PPRank)), Inline: true},
			{Name: "Country Rank", Value: fmt.Sprintf("#%s (%s)", Number(int64(u.PPCountryRank)), u.Country), Inline: true},
			{Name: "Level", Value: Floor2(u.Level), Inline: true},
			{Name: "pp", Value: Number(int64(u.PPRaw)), Inline: true},
			{Name: "Accuracy", Value: Floor2(u.Accuracy) + "%", Inline: true},
			{Name: "Playtime", Value: Number(int64(u.SecondsPlayed/3600)) + "h", Inline: true},
			{Name: "Play Count", Value: Number(int64(u.PlayCount)), Inline: true},
			{Name: "Ranked Score", Value: Number(u.RankedScore), Inline: true},
			{Name: "Grades", Value: fmt.Sprintf("SS+ %s • SS %s • S+ %s • S %s • A %s",
				Number(int64(u.CountRankSSH)), Number(int64(u.CountRankSS)), Number(int64(u.CountRankSH)),
				Number(int64(u.CountRankS)), Number(int64(u.CountRankA)))},
		},
	}
}

// Changelog renders the fixed changelog pointer.
func Changelog() *chatevents.Embed {
	return &chatevents.Embed{
		Title: "All of the latest changes can be found on The Beautiful Bot website",
		Description: "[Changelog file in TBB's Github repo](https://github.com/moorad/the-beautiful-bot/blob/master/CHANGELOG.md) " +
			"or [TBB's website](https://the-beautiful-bot.netlify.com/changelog)\n" +
			"If you want a more indepth changelog you can check out The Beautiful Bot's GitHub Page\n" +
			"https://github.com/Moorad/the-beautiful-bot/commits/master",
		Color: ColorChangelog,
	}
}

// Linked confirms an osuset.
func Linked(s *accountservice.Settings) string {
	return fmt.Sprintf(":white_check_mark: Linked **%s** on %s servers with osu! %s as the default mode",
		s.OsuUsername, s.Type, s.Mode)
}

// Ping lists each backend's latency.
func Ping(latencies []osuservice.Latency) string {
	lines := make([]string, 0, len(latencies))
	for _, l := range latencies {
		if l.Err != nil {
			lines = append(lines, fmt.Sprintf("%s API is unreachable (%dms)", l.Server, l.Elapsed.Milliseconds()))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s API latency is %dms", l.Server, l.Elapsed.Milliseconds()))
	}
	return strings.Join(lines, "\n")
}

// UnexpectedError is the one generic apology shown for transport and
// decoding failures.
func UnexpectedError(invocationID string) string {
	msg := ":red_circle: **An unexpected error occurred**\nThe request could not be completed, please try again later."
	if invocationID != "" {
		msg += fmt.Sprintf("\nReference: `%s`", invocationID)
	}
	return msg + arguments.ReportSuffix
}
