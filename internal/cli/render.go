package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/roomfit/roomfit/internal/compat"
)

func labelColor(l compat.Label) *color.Color {
	switch l {
	case compat.LabelGood:
		return color.New(color.FgGreen, color.Bold)
	case compat.LabelMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func renderCards(w io.Writer, cards []compat.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No matches yet.")
		return
	}
	gray := color.New(color.FgHiBlack)
	for _, c := range cards {
		labelColor(c.Label).Fprintf(w, "%3d%% %-6s", c.Percentage, c.Label)
		fmt.Fprintf(w, " %s", c.Name)
		var facts []string
		for _, f := range []string{c.AgeBracket, c.Gender, c.School} {
			if f != "" {
				facts = append(facts, f)
			}
		}
		if len(facts) > 0 {
			gray.Fprintf(w, " (%s)", strings.Join(facts, ", "))
		}
		fmt.Fprintln(w)
		if len(c.Tags) > 0 {
			fmt.Fprintf(w, "     #%s\n", strings.Join(c.Tags, " #"))
		}
		if c.Station != "" {
			fmt.Fprintf(w, "     %s\n", c.Station)
		}
		for _, b := range c.Breakdown {
			mark := color.New(color.FgGreen).Sprint("ok")
			if !b.Compatible {
				mark = color.New(color.FgRed).Sprint("--")
			}
			fmt.Fprintf(w, "     %s %s\n", mark, b.Title)
		}
	}
}
