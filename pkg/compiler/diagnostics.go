package compiler

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Diagnostic is one error message tied to a 1-based source line.
type Diagnostic struct {
	Line int
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d. %s", d.Line, d.Msg)
}

// Diagnostics keeps messages in the order they were raised.
type Diagnostics []Diagnostic

// Listing groups messages by line in ascending line order, one output line per
// source line: "<line>. <m1> <m2> ...".
func (ds Diagnostics) Listing() string {
	byLine := map[int][]string{}
	for _, d := range ds {
		byLine[d.Line] = append(byLine[d.Line], d.Msg)
	}
	lines := make([]int, 0, len(byLine))
	for l := range byLine {
		lines = append(lines, l)
	}
	sort.Ints(lines)

	var sb strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&sb, "%d. %s\n", l, strings.Join(byLine[l], " "))
	}
	return sb.String()
}

// Messages returns the bare messages.
func (ds Diagnostics) Messages() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Msg
	}
	return out
}

// writeListings writes each group's listing in turn.
func writeListings(w io.Writer, groups ...Diagnostics) error {
	for _, g := range groups {
		if _, err := io.WriteString(w, g.Listing()); err != nil {
			return err
		}
	}
	return nil
}
