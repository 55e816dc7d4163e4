package arguments

import (
	"strings"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

func setMode(m scores.Mode) func(Options, string) Options {
	return func(opts Options, _ string) Options {
		opts.Mode = m
		return opts
	}
}

// aliasesExcept returns the ruleset aliases other than the descriptor name.
func aliasesExcept(m scores.Mode, name string) []string {
	var out []string
	for _, a := range m.Aliases() {
		if a != name {
			out = append(out, a)
		}
	}
	return out
}

var descriptors = []Descriptor{
	{
		Name:        "previous",
		Aliases:     []string{"p"},
		Description: "Show the specificed previous play",
		AllowedText: "0-49",
		Variant: ValueFlag{
			Validate: func(raw string) bool {
				f, ok := numeric(raw)
				return ok && f >= 0 && f < 50
			},
			ValidatorText: "a value  between `0` and `49`",
			Apply: func(opts Options, raw string) Options {
				opts.Previous, _ = leadingInt(raw)
				return opts
			},
		},
	},
	{
		Name:        "mode",
		Aliases:     []string{"m"},
		Description: "Specify the osu! mode",
		Allowed: []Allowed{
			{"0", "Standard `(Default)`"},
			{"1", "Taiko"},
			{"2", "Catch"},
			{"3", "Mania"},
		},
		Variant: ValueFlag{
			Validate:      oneOf(0, 1, 2, 3),
			ValidatorText: "`0`, `1`, `2` or `3`",
			Apply: func(opts Options, raw string) Options {
				n, _ := leadingInt(raw)
				opts.Mode = scores.Mode(n)
				return opts
			},
		},
	},
	{
		Name:        "type",
		Aliases:     []string{"t"},
		Description: "Specify the server to pull data from",
		Allowed: []Allowed{
			{"0", "Offical Servers `(Default)`"},
			{"1", "Gatari Servers"},
			{"2", "Akatsuki Servers"},
		},
		Variant: ValueFlag{
			Validate:      oneOf(0, 1, 2),
			ValidatorText: "`0`, `1` or `2`",
			Apply: func(opts Options, raw string) Options {
				n, _ := leadingInt(raw)
				opts.Type = scores.Server(n)
				return opts
			},
		},
	},
	{
		Name:        "relax",
		Aliases:     []string{"rx"},
		Description: "Show relax plays `(Akatsuki Only)`",
		Variant: Switch{Set: func(opts Options) Options {
			opts.Relax = true
			return opts
		}},
	},
	{
		Name:        "mods",
		Description: "Filter plays by mods",
		AllowedText: "\n`mod abbreviations` : only show plays with the exact mod combination e.g. `HDDT`\n" +
			"adding a `!` at the start will show any play with the mod combination + any other mods e.g. `!HDDT`",
		Variant: ValueFlag{
			Apply: func(opts Options, raw string) Options {
				opts.Mods = ModsFilter{
					Negated: strings.HasPrefix(raw, "!"),
					Value:   mods.ToValue(strings.Replace(raw, "!", "", 1)),
				}
				return opts
			},
		},
	},
	{
		Name:        "standard",
		Aliases:     aliasesExcept(scores.Standard, "standard"),
		Description: "Change gamemode to osu! Standard",
		Variant:     NoArgument{Apply: setMode(scores.Standard)},
	},
	{
		Name:        "taiko",
		Description: "Change gamemode to osu! Taiko",
		Variant:     NoArgument{Apply: setMode(scores.Taiko)},
	},
	{
		Name:        "catch",
		Aliases:     aliasesExcept(scores.Catch, "catch"),
		Description: "Change gamemode to osu! Catch",
		Variant:     NoArgument{Apply: setMode(scores.Catch)},
	},
	{
		Name:        "mania",
		Description: "Change gamemode to osu! Mania",
		Variant:     NoArgument{Apply: setMode(scores.Mania)},
	},
	{
		Name:        "passesonly",
		Aliases:     []string{"passonly", "pass", "passes", "onlypass", "onlypasses", "po"},
		Description: "Only show passed scores",
		Variant: Switch{Set: func(opts Options) Options {
			opts.PassesOnly = true
			return opts
		}},
	},
}

var otherDescriptors = []Descriptor{
	{
		Name: "Username",
		Description: "The osu! username or a discord ping (their account must be linked) of the player to run the command on. " +
			"`By default` if no name was provided, the linked osu! username of the user using the command will be used (refer to `osuset`)",
	},
	{
		Name:        "Command",
		Description: "The command to show more information on. If no command was provided the bot will alternatively show the full list of commands available",
	},
	{
		Name: "Term",
		Description: "A term to search for, this can be anything from beatmap name, artist, mapper or tags.\n\n" +
			"Note: this command is deprecated and very unstable and soon will get completely revamped",
	},
	{
		Name: "Gamemode",
		Description: "The gamemode to set as your default. This gamemode will be the default gamemode when using commands such as `recent`, `best`, etc if no gamemode is specified.\n" +
			"`0` | `standard` | `std`\n`1` | `taiko`\n`2` | `catch` | `ctb` | `catch the beat`\n`3` | `mania`",
	},
}

var performanceDescriptors = []Descriptor{
	{
		Name:        "[accuracy]%",
		Description: "show the pp for the specified accuracy `100% by Default` e.g. `pp 85%`",
		NoPrefix:    true,
	},
	{
		Name:        "+[mods]",
		Description: "show the pp for the specified mods applied `No Mod by Default` e.g `pp +HDHR`",
		NoPrefix:    true,
	},
	{
		Name:        "[misses]m",
		Description: "show the pp for the specified number of misses `0 misses by Default` e.g. `pp 2m`",
		NoPrefix:    true,
	},
	{
		Name:        "[combo]x",
		Description: "show the pp for the specified combo `Full Combo by Default` e.g. `pp 210x`",
		NoPrefix:    true,
	},
}

// Lookup finds the flag descriptor selected by word (without the dash).
func Lookup(word string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Matches(word) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Details returns the flag descriptors with the given names, in the order asked.
func Details(names ...string) []Descriptor {
	return pick(descriptors, names, true)
}

// OtherDetails returns positional argument descriptors by exact name.
func OtherDetails(names ...string) []Descriptor {
	return pick(otherDescriptors, names, false)
}

// PerformanceDetails returns the performance-query terms; all of them when no
// names are given.
func PerformanceDetails(names ...string) []Descriptor {
	if len(names) == 0 {
		out := make([]Descriptor, len(performanceDescriptors))
		copy(out, performanceDescriptors)
		return out
	}
	return pick(performanceDescriptors, names, false)
}

func pick(from []Descriptor, names []string, fold bool) []Descriptor {
	var out []Descriptor
	for _, n := range names {
		for _, d := range from {
			if d.Name == n || (fold && strings.EqualFold(d.Name, n)) {
				out = append(out, d)
			}
		}
	}
	return out
}
