package microbench

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Column widths of the report table.
const (
	nameWidth  = 22
	validWidth = 5
	avgWidth   = 16
	rateWidth  = 9
	rangeWidth = 23
	pctWidth   = 8
)

var denominators = []time.Duration{time.Hour, time.Minute, time.Second, time.Millisecond, time.Microsecond, time.Nanosecond}
var units = []string{"h", "m", "s", "ms", "µs", "ns"}

var numberPrinter = message.NewPrinter(language.English)

// FormatTime renders a latency in milliseconds with one decimal, switching
// to microseconds below one millisecond.
func FormatTime(ms float64) string {
	if ms < 1 {
		return fmt.Sprintf("%.1f µs", ms*1000)
	}
	return fmt.Sprintf("%.1f ms", ms)
}

// FormatDuration renders d in the largest unit it has at least one of.
func FormatDuration(d time.Duration) string {
	for i, denominator := range denominators {
		if d/denominator > 0 {
			return fmt.Sprintf("%.2f %s", float64(d)/float64(denominator), units[i])
		}
	}
	return "0 ns"
}

// FormatNumber rounds n to an integer and groups its digits en-US style.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "∞"
	case math.IsInf(n, -1):
		return "-∞"
	}
	return numberPrinter.Sprintf("%d", int64(math.Round(n)))
}

// ShortenName pads name to width runes, eliding the middle of longer names
// while keeping their last four runes. Widths too narrow for the ellipsis
// and suffix cut the name to its first width runes.
func ShortenName(name string, width int) string {
	const suffixLen = 4
	r := []rune(name)
	if len(r) <= width {
		return padEnd(name, width)
	}
	if width < suffixLen+3 {
		return string(r[:max(width, 0)])
	}
	prefixLen := width - 3 - suffixLen
	return string(r[:prefixLen]) + "..." + string(r[len(r)-suffixLen:])
}

func padEnd(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}

func padStart(s string, width int) string {
	return fmt.Sprintf("%*s", width, s)
}

// Format renders results as an aligned table titled "benchmark for <title>".
// A validity column is included when any result tracked validity; colored
// adds ANSI styling to it.
func Format(results []Result, title string, colored bool) string {
	withValidity := false
	for _, r := range results {
		if r.Validity {
			withValidity = true
			break
		}
	}

	header := []string{padEnd("benchmark", nameWidth)}
	separator := []string{strings.Repeat("-", nameWidth)}
	if withValidity {
		header = append(header, padEnd("valid", validWidth))
		separator = append(separator, strings.Repeat("-", validWidth))
	}
	header = append(header,
		padEnd("time/iter (avg)", avgWidth),
		padEnd("iter/s", rateWidth),
		padEnd("(min … max)", rangeWidth),
		padEnd("p75", pctWidth),
		padEnd("p99", pctWidth),
		"p995",
	)
	separator = append(separator,
		strings.Repeat("-", avgWidth),
		strings.Repeat("-", rateWidth),
		strings.Repeat("-", rangeWidth),
		strings.Repeat("-", pctWidth),
		strings.Repeat("-", pctWidth),
		strings.Repeat("-", pctWidth),
	)

	lines := []string{
		"benchmark for " + title,
		strings.Join(header, " "),
		strings.Join(separator, " "),
	}
	for _, r := range results {
		row := []string{ShortenName(r.Name, nameWidth)}
		if withValidity {
			row = append(row, validMarker(r, colored))
		}
		row = append(row,
			padEnd(FormatTime(r.Avg), avgWidth),
			padEnd(FormatNumber(r.IterPerSec), rateWidth),
			padEnd(fmt.Sprintf("(%s … %s)", FormatTime(r.Min), FormatTime(r.Max)), rangeWidth),
			padStart(FormatTime(r.P75), pctWidth),
			padStart(FormatTime(r.P99), pctWidth),
			padStart(FormatTime(r.P995), pctWidth),
		)
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}

// validMarker pads before styling so escape codes don't count toward width.
func validMarker(r Result, colored bool) string {
	if !r.Validity {
		return padEnd("", validWidth)
	}
	mark, attr := "✗", color.FgRed
	if r.Valid {
		mark, attr = "✓", color.FgGreen
	}
	padded := padEnd(mark, validWidth)
	if !colored {
		return padded
	}
	c := color.New(attr, color.Bold)
	c.EnableColor()
	return c.Sprint(padded)
}

// FormatComparison ranks results by average latency and states how many
// times faster the quickest one ran than each of the others.
func FormatComparison(results []Result) string {
	if len(results) < 2 {
		return ""
	}
	ranked := make([]Result, len(results))
	copy(ranked, results)
	sortByAvg(ranked)

	fastest := ranked[0]
	var b strings.Builder
	b.WriteString("Summary\n")
	fmt.Fprintf(&b, "  '%s' ran\n", fastest.Name)
	for _, r := range ranked[1:] {
		ratio := math.Inf(1)
		if fastest.Avg > 0 {
			ratio = r.Avg / fastest.Avg
		}
		fmt.Fprintf(&b, "    %.2f times faster than '%s'\n", ratio, r.Name)
	}
	return b.String()
}
