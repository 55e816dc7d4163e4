package arguments

import (
	"fmt"
	"strings"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

// FlagMarker prefixes every flag token.
const FlagMarker = "-"

// ReportSuffix is appended to every grammar error shown to users.
const ReportSuffix = "\n(If you believe this is a bug or have a suggestion use `$report [description of bug/suggestion]`)"

// Result is the outcome of parsing one token list.
type Result struct {
	Options Options
	// Positional holds the tokens left once every flag was consumed.
	Positional []string
	// Message is the user-facing grammar error, set when Options.Error is true.
	Message string
}

// Parse folds the token list into an Options record. After every consumed
// flag the scan restarts from the first remaining token; the first error
// stops parsing.
func Parse(tokens []string) Result {
	opts := DefaultOptions()
	rest := append([]string(nil), tokens...)

	for {
		i, d, found := next(rest)
		if i < 0 {
			return Result{Options: opts, Positional: rest}
		}
		token := rest[i]
		if !found {
			return fail(opts, rest, fmt.Sprintf(":red_circle: `%s` is an unrecognised argument", token))
		}

		switch v := d.Variant.(type) {
		case NoArgument:
			opts = v.Apply(opts, strings.TrimPrefix(token, FlagMarker))
			rest = without(rest, i, 1)

		case Switch:
			opts = v.Set(opts)
			rest = without(rest, i, 1)

		case ValueFlag:
			if i == len(rest)-1 || strings.HasPrefix(rest[i+1], FlagMarker) {
				return fail(opts, rest, fmt.Sprintf(":red_circle: `-%s` must have a value after it", d.Name))
			}
			value := rest[i+1]
			if v.Validate != nil && !v.Validate(value) {
				return fail(opts, rest, fmt.Sprintf(
					":red_circle: `%s` is an invalid value after `%s`\n`-%s` only accepts %s",
					value, token, d.Name, v.ValidatorText,
				))
			}
			opts = v.Apply(opts, value)
			rest = without(rest, i, 2)

		default:
			return fail(opts, rest, fmt.Sprintf(":red_circle: `%s` is an unrecognised argument", token))
		}
	}
}

// next finds the first token that is either a flag or a bare mode word.
// found is false when a flag token matches no descriptor.
func next(tokens []string) (int, Descriptor, bool) {
	for i, tok := range tokens {
		if strings.HasPrefix(tok, FlagMarker) {
			d, ok := Lookup(strings.TrimPrefix(tok, FlagMarker))
			return i, d, ok
		}
		if d, ok := Lookup(tok); ok {
			if _, bare := d.Variant.(NoArgument); bare {
				return i, d, true
			}
		}
	}
	return -1, Descriptor{}, false
}

func fail(opts Options, rest []string, msg string) Result {
	opts.Error = true
	return Result{Options: opts, Positional: rest, Message: msg + ReportSuffix}
}

// without returns a copy of tokens with n tokens removed at i.
func without(tokens []string, i, n int) []string {
	out := make([]string, 0, len(tokens)-n)
	out = append(out, tokens[:i]...)
	return append(out, tokens[i+n:]...)
}

// ExpressesMode reports whether the raw argument text names a ruleset, either
// through the mode flag or a mode word. Both checks are substring matches on
// the lowered text, so "-mods" also counts as the mode flag and keeps the
// stored mode from applying, as in the legacy bot.
func ExpressesMode(raw string) bool {
	raw = strings.ToLower(raw)
	if strings.Contains(raw, "-m") {
		return true
	}
	for _, alias := range scores.AllAliases() {
		if strings.Contains(raw, alias) {
			return true
		}
	}
	return false
}
