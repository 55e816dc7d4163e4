package render

import (
	"fmt"
	"strings"

	chatevents "github.com/moorad/the-beautiful-bot/app/events/chat"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/arguments"
)

// HelpPages is the number of help pages.
const HelpPages = 2

// HelpEntry describes one command for the help pages.
type HelpEntry struct {
	Name        string
	Aliases     []string
	Description string
	// Page is 1 for osu! commands and 2 for general ones.
	Page      int
	Options   []arguments.Descriptor
	Arguments []arguments.Descriptor
}

// Help renders one page of the command list. Pages outside 1..HelpPages
// are clamped.
func Help(prefix string, page int, entries []HelpEntry) *chatevents.Embed {
	page = min(max(page, 1), HelpPages)

	var b strings.Builder
	if page == 1 {
		b.WriteString("**---- osu! ----**\n")
	} else {
		b.WriteString("**---- General ----**\n")
	}
	for _, e := range entries {
		if e.Page != page {
			continue
		}
		writeEntry(&b, prefix, e)
	}

	if page < HelpPages {
		fmt.Fprintf(&b, "Use `%shelp %d` to go to the next page\n", prefix, page+1)
	} else {
		fmt.Fprintf(&b, "Use `%shelp %d` to go to the previous page\n", prefix, page-1)
	}
	fmt.Fprintf(&b, "[%d/%d]", page, HelpPages)

	return &chatevents.Embed{
		Description: b.String(),
		Color:       ColorBest,
		Footer: &chatevents.EmbedFooter{
			IconURL: "https://i.imgur.com/34evAhO.png",
			Text:    "Always Remember, The beautiful bot loves you <3",
		},
	}
}

// HelpCommand renders the detail of a single command.
func HelpCommand(prefix string, e HelpEntry) *chatevents.Embed {
	var b strings.Builder
	writeEntry(&b, prefix, e)
	for _, a := range e.Arguments {
		fmt.Fprintf(&b, "`[%s]` - %s\n", a.Name, a.Description)
	}

	return &chatevents.Embed{
		Title:       prefix + e.Name,
		Description: strings.TrimRight(b.String(), "\n"),
		Color:       ColorBest,
	}
}

func writeEntry(b *strings.Builder, prefix string, e HelpEntry) {
	usage := prefix + e.Name
	for _, a := range e.Arguments {
		usage += " [" + a.Name + "]"
	}
	fmt.Fprintf(b, "**`%s`**", usage)
	for _, alias := range e.Aliases {
		fmt.Fprintf(b, " or **`%s%s`**", prefix, alias)
	}
	fmt.Fprintf(b, "\n%s\n", e.Description)

	for _, d := range e.Options {
		if d.NoPrefix {
			fmt.Fprintf(b, "\t\t`%s` - (optional) %s\n", d.Name, d.Description)
			continue
		}
		switch d.Variant.(type) {
		case arguments.ValueFlag:
			fmt.Fprintf(b, "\t\t`-%s [%s]` - (optional) %s\n", d.Name, d.Name, d.Description)
		case arguments.NoArgument:
			fmt.Fprintf(b, "\t\t`%s` - (optional) %s\n", d.Name, d.Description)
		default:
			fmt.Fprintf(b, "\t\t`-%s` - (optional) %s\n", d.Name, d.Description)
		}
		for _, v := range d.Allowed {
			fmt.Fprintf(b, "\t\t\t\t`%s` - %s\n", v.Value, v.Meaning)
		}
		if d.AllowedText != "" && len(d.Allowed) == 0 {
			fmt.Fprintf(b, "\t\t\t\t%s\n", strings.TrimSpace(d.AllowedText))
		}
	}
	b.WriteString("\n")
}
