package osuservice

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountservice "github.com/moorad/the-beautiful-bot/app/modules/account/application"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends/backendstest"
	"github.com/moorad/the-beautiful-bot/internal/results"
)

const officialBest = `[
 {"beatmap_id":"1","score":"5000000","maxcombo":"500","count50":"0","count100":"2","count300":"498","countmiss":"0","countkatu":"0","countgeki":"0","perfect":"1","enabled_mods":"24","user_id":"55","date":"2024-03-01 10:00:00","rank":"SH","pp":"412.76"},
 {"beatmap_id":"2","score":"4000000","maxcombo":"400","count50":"1","count100":"5","count300":"390","countmiss":"1","countkatu":"0","countgeki":"0","perfect":"0","enabled_mods":"8","user_id":"55","date":"2024-02-01 10:00:00","rank":"A","pp":"380.1"},
 {"beatmap_id":"3","score":"3000000","maxcombo":"300","count50":"0","count100":"0","count300":"300","countmiss":"0","countkatu":"0","countgeki":"0","perfect":"1","enabled_mods":"0","user_id":"55","date":"2024-01-01 10:00:00","rank":"X","pp":"350"}
]`

const officialRecent = `[
 {"beatmap_id":"3","score":"10","maxcombo":"3","count50":"0","count100":"0","count300":"3","countmiss":"5","countkatu":"0","countgeki":"0","perfect":"0","enabled_mods":"0","user_id":"55","date":"2024-03-02 10:00:00","rank":"F","pp":"0"},
 {"beatmap_id":"2","score":"20","maxcombo":"30","count50":"0","count100":"0","count300":"30","countmiss":"0","countkatu":"0","countgeki":"0","perfect":"1","enabled_mods":"64","user_id":"55","date":"2024-03-02 09:00:00","rank":"S","pp":"0"}
]`

func beatmap(id, title string) string {
	return `[{"beatmap_id":"` + id + `","beatmapset_id":"9` + id + `","title":"` + title + `","artist":"a","version":"Insane","creator":"c","difficultyrating":"5.4321","max_combo":"500","bpm":"180","total_length":"120","diff_size":"4","diff_approach":"9","diff_overall":"8","diff_drain":"6"}]`
}

var beatmaps = backendstest.ByQuery("b", map[string]string{
	"1": beatmap("1", "One"),
	"2": beatmap("2", "Two"),
	"3": beatmap("3", "Three"),
})

func userError(t *testing.T, err error) *UserError {
	t.Helper()
	var ue *UserError
	require.True(t, errors.As(err, &ue), "failure %v is not a UserError", err)
	return ue
}

func TestBest(t *testing.T) {
	tests := []struct {
		name        string
		tokens      []string
		routes      backendstest.Routes
		wantIDs     []string
		wantPP      int
		wantCode    int
		wantFailure bool
		wantErr     bool
	}{
		{
			name:   "top plays with beatmaps",
			tokens: []string{"Moorad"},
			routes: backendstest.Routes{
				"/api/get_user_best": backendstest.JSON(http.StatusOK, officialBest),
				"/api/get_beatmaps":  beatmaps,
			},
			wantIDs: []string{"1", "2", "3"},
			wantPP:  3,
		},
		{
			name:   "exact mods filter",
			tokens: []string{"-mods", "HD", "Moorad"},
			routes: backendstest.Routes{
				"/api/get_user_best": backendstest.JSON(http.StatusOK, officialBest),
				"/api/get_beatmaps":  beatmaps,
			},
			wantIDs: []string{"2"},
			wantPP:  3,
		},
		{
			name:   "containment mods filter",
			tokens: []string{"-mods", "!HD", "Moorad"},
			routes: backendstest.Routes{
				"/api/get_user_best": backendstest.JSON(http.StatusOK, officialBest),
				"/api/get_beatmaps":  beatmaps,
			},
			wantIDs: []string{"1", "2"},
			wantPP:  3,
		},
		{
			name:   "filter matching nothing",
			tokens: []string{"-mods", "FL", "Moorad"},
			routes: backendstest.Routes{
				"/api/get_user_best": backendstest.JSON(http.StatusOK, officialBest),
			},
			wantIDs: []string{},
			wantPP:  3,
		},
		{
			name:   "unknown user",
			tokens: []string{"nobody"},
			routes: backendstest.Routes{
				"/api/get_user_best": backendstest.JSON(http.StatusOK, `[]`),
			},
			wantFailure: true,
			wantCode:    CodeUserNotFound,
		},
		{
			name:   "one beatmap failing fails the command",
			tokens: []string{"Moorad"},
			routes: backendstest.Routes{
				"/api/get_user_best": backendstest.JSON(http.StatusOK, officialBest),
				"/api/get_beatmaps": backendstest.ByQuery("b", map[string]string{
					"1": beatmap("1", "One"),
					"3": beatmap("3", "Three"),
				}),
			},
			wantErr: true,
		},
		{
			name:   "upstream down",
			tokens: []string{"Moorad"},
			routes: backendstest.Routes{
				"/api/get_user_best": backendstest.JSON(http.StatusBadGateway, `oops`),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, NewFakeAccounts(), tt.routes)

			result, err := svc.Best(context.Background(), "1", tt.tokens)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, result.IsSuccess())
				return
			}
			require.NoError(t, err)
			if tt.wantFailure {
				require.True(t, result.IsFailure())
				assert.Equal(t, tt.wantCode, userError(t, *result.Failure).Code)
				return
			}
			require.True(t, result.IsSuccess())
			best := *result.Success

			ids := make([]string, 0, len(best.Plays))
			for i, p := range best.Plays {
				ids = append(ids, p.BeatmapID)
				assert.Equal(t, p.BeatmapID, best.Beatmaps[i].BeatmapID, "beatmaps stay aligned with plays")
				assert.NotZero(t, p.Accuracy)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Len(t, best.PP, tt.wantPP)
			assert.Equal(t, "55", best.UserID)
		})
	}
}

func TestBestNotFoundMakesOneCall(t *testing.T) {
	svc, up := newTestService(t, NewFakeAccounts(), backendstest.Routes{
		"/api/get_user_best": backendstest.JSON(http.StatusOK, `[]`),
	})

	result, err := svc.Best(context.Background(), "1", []string{"ghost"})
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Contains(t, userError(t, *result.Failure).Message, "The username `ghost` is not valid")
	assert.Len(t, up.Calls(), 1)
}

func TestBestGrammarErrorMakesNoCalls(t *testing.T) {
	accounts := NewFakeAccounts()
	svc, up := newTestService(t, accounts, nil)

	result, err := svc.Best(context.Background(), "1", []string{"-zz"})
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Contains(t, userError(t, *result.Failure).Message, "`-zz` is an unrecognised argument")
	assert.Empty(t, up.Calls())
	assert.Empty(t, accounts.Trace())
}

func TestRecent(t *testing.T) {
	routes := backendstest.Routes{
		"/api/get_user_recent": backendstest.JSON(http.StatusOK, officialRecent),
		"/api/get_beatmaps":    beatmaps,
	}

	tests := []struct {
		name        string
		tokens      []string
		wantBeatmap string
		wantRank    string
		wantFailure string
	}{
		{name: "latest play", tokens: []string{"Moorad"}, wantBeatmap: "3", wantRank: "F"},
		{name: "previous play", tokens: []string{"-p", "1", "Moorad"}, wantBeatmap: "2", wantRank: "S"},
		{name: "passes only", tokens: []string{"-passesonly", "Moorad"}, wantBeatmap: "2", wantRank: "S"},
		{name: "past the end", tokens: []string{"-po", "-p", "1", "Moorad"}, wantFailure: "has no recent plays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, NewFakeAccounts(), routes)

			result, err := svc.Recent(context.Background(), "1", tt.tokens)
			require.NoError(t, err)
			if tt.wantFailure != "" {
				require.True(t, result.IsFailure())
				assert.Contains(t, userError(t, *result.Failure).Message, tt.wantFailure)
				return
			}
			require.True(t, result.IsSuccess())
			recent := *result.Success
			assert.Equal(t, tt.wantBeatmap, recent.Play.BeatmapID)
			assert.Equal(t, tt.wantBeatmap, recent.Beatmap.BeatmapID)
			assert.Equal(t, tt.wantRank, recent.Play.Rank)
		})
	}
}

func TestRecentRequestsDifficultyMods(t *testing.T) {
	svc, up := newTestService(t, NewFakeAccounts(), backendstest.Routes{
		"/api/get_user_recent": backendstest.JSON(http.StatusOK, officialRecent),
		"/api/get_beatmaps":    beatmaps,
	})

	_, err := svc.Recent(context.Background(), "1", []string{"-p", "1", "Moorad"})
	require.NoError(t, err)

	calls := up.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1], "mods=64")
	assert.Equal(t, 64, mods.DifficultyChanging(64))
}

func TestUser(t *testing.T) {
	svc, up := newTestService(t, NewFakeAccounts(), backendstest.Routes{
		"/api/get_user": backendstest.ByQuery("u", map[string]string{
			"Moorad": `[{"user_id":"55","username":"Moorad","country":"GB","level":"99.5","pp_rank":"1200","pp_raw":"7000.2","accuracy":"98.7654","playcount":"40000","total_seconds_played":"3600000"}]`,
		}),
	})

	t.Run("found", func(t *testing.T) {
		result, err := svc.User(context.Background(), "1", []string{"Moorad", "-m", "3"})
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		card := *result.Success
		assert.Equal(t, "55", card.User.UserID)
		assert.Equal(t, scores.Mania, card.Mode)
		assert.Equal(t, scores.Official, card.Backend.Server())
		assert.Contains(t, up.Calls()[0], "m=3")
	})

	t.Run("not found", func(t *testing.T) {
		result, err := svc.User(context.Background(), "1", []string{"ghost"})
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		ue := userError(t, *result.Failure)
		assert.Equal(t, CodeUserNotFound, ue.Code)
		assert.Equal(t, ErrorMessage(CodeUserNotFound), ue.Message)
	})
}

func TestLink(t *testing.T) {
	tests := []struct {
		name        string
		tokens      []string
		link        func(context.Context, accountservice.LinkRequest) (accountservice.SettingsResult, error)
		wantReq     *accountservice.LinkRequest
		wantFailure string
		wantErr     bool
	}{
		{
			name:    "defaults",
			tokens:  []string{"Moorad"},
			wantReq: &accountservice.LinkRequest{DiscordID: "1", ChannelID: "c", OsuUsername: "Moorad"},
		},
		{
			name:    "server and mode",
			tokens:  []string{"-t", "1", "mania", "Big", "Black"},
			wantReq: &accountservice.LinkRequest{DiscordID: "1", ChannelID: "c", OsuUsername: "Big_Black", Mode: scores.Mania, Type: scores.Gatari},
		},
		{
			name:        "missing username",
			tokens:      []string{"-t", "1"},
			wantFailure: "Please provide a username",
		},
		{
			name:        "grammar error",
			tokens:      []string{"-t", "7", "Moorad"},
			wantFailure: "`7` is an invalid value after `-t`",
		},
		{
			name:   "rejected link",
			tokens: []string{"Moorad"},
			link: func(context.Context, accountservice.LinkRequest) (accountservice.SettingsResult, error) {
				return results.FailureResult[*accountservice.Settings, error](accountservice.ErrInvalidLink), nil
			},
			wantFailure: "not valid",
		},
		{
			name:   "store down",
			tokens: []string{"Moorad"},
			link: func(context.Context, accountservice.LinkRequest) (accountservice.SettingsResult, error) {
				return accountservice.SettingsResult{}, errors.New("connection refused")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := NewFakeAccounts()
			var got *accountservice.LinkRequest
			accounts.LinkAccountFunc = func(ctx context.Context, req accountservice.LinkRequest) (accountservice.SettingsResult, error) {
				got = &req
				if tt.link != nil {
					return tt.link(ctx, req)
				}
				return results.SuccessResult[*accountservice.Settings, error](&accountservice.Settings{OsuUsername: req.OsuUsername}), nil
			}
			svc, _ := newTestService(t, accounts, nil)

			result, err := svc.Link(context.Background(), "1", "c", tt.tokens)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantFailure != "" {
				require.True(t, result.IsFailure())
				assert.Contains(t, (*result.Failure).Error(), tt.wantFailure)
				return
			}
			require.True(t, result.IsSuccess())
			assert.Equal(t, tt.wantReq, got)
		})
	}
}

func TestPing(t *testing.T) {
	svc, _ := newTestService(t, NewFakeAccounts(), backendstest.Routes{
		"/api/get_user": backendstest.JSON(http.StatusOK, `[{"user_id":"55","username":"Moorad"}]`),
		"/users/get":    backendstest.JSON(http.StatusOK, `{"users":[{"id":1000,"username":"Moorad"}]}`),
		"/api/v1/users": backendstest.JSON(http.StatusInternalServerError, `{}`),
	})

	latencies := svc.Ping(context.Background())
	require.Len(t, latencies, 3)
	assert.Equal(t, []scores.Server{scores.Official, scores.Gatari, scores.Akatsuki},
		[]scores.Server{latencies[0].Server, latencies[1].Server, latencies[2].Server})
	assert.NoError(t, latencies[0].Err)
	assert.NoError(t, latencies[1].Err)
	assert.Error(t, latencies[2].Err)
	for _, l := range latencies {
		assert.Positive(t, l.Elapsed)
	}
}

func TestErrorMessage(t *testing.T) {
	assert.True(t, strings.HasPrefix(ErrorMessage(CodeNotLinked), ":red_circle:"))
	assert.NotEqual(t, ErrorMessage(CodeNotLinked), ErrorMessage(CodeUserNotFound))
	assert.Equal(t, ":red_circle: **Something went wrong**", ErrorMessage(1))
}
