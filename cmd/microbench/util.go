package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/term"
)

const (
	progressDoneRune    = "█"
	progressPendingRune = "▒"
)

// list2Cmdline splits a command line into arguments without a shell.
// Arguments are separated by runs of spaces or tabs. Text inside double or
// single quotes stays in one argument, and the other quote character is
// literal there. An empty quoted string is an empty argument. A backslash
// before either quote character makes that quote literal; any other
// backslash is kept as is.
func list2Cmdline(cmd string) []string {
	var cmdParts []string
	var inQuote rune
	var pending bool

	var b strings.Builder
	for i, ch := range cmd {
		switch {
		case (ch == '"' || ch == '\'') && (i == 0 || cmd[i-1] != '\\'):
			switch inQuote {
			case rune(0):
				inQuote = ch
				pending = true
			case ch:
				inQuote = rune(0)
			default:
				b.WriteRune(ch)
			}
		case (ch == ' ' || ch == '\t') && inQuote == 0:
			if pending || b.Len() > 0 {
				cmdParts = append(cmdParts, b.String())
			}
			b.Reset()
			pending = false
		case ch == '\\' && i+1 < len(cmd) && (cmd[i+1] == '"' || cmd[i+1] == '\''):
			// escape for the quote that follows
		default:
			b.WriteRune(ch)
		}
	}
	if pending || b.Len() > 0 {
		cmdParts = append(cmdParts, b.String())
	}
	return cmdParts
}

// shellArgs wraps cmd for execution by shell.
func shellArgs(shell, cmd string) []string {
	if runtime.GOOS == "windows" || strings.HasSuffix(strings.ToLower(shell), "cmd.exe") {
		return []string{shell, "/C", cmd}
	}
	return []string{shell, "-c", cmd}
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "/bin/sh"
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func clearCurrentTerminalLine(w io.Writer) {
	w.Write([]byte("\r\033[K"))
}

func printProgressLine(w io.Writer, line string, progress float64, eta time.Duration) {
	terminalWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		terminalWidth = 80
	}
	barWidth := terminalWidth - len([]rune(line)) - 2 - 12
	if barWidth < 0 {
		barWidth = 0
	}
	progressChunks := int(progress * float64(barWidth))
	progressLine := strings.Repeat(progressDoneRune, progressChunks)
	progressLine += strings.Repeat(progressPendingRune, barWidth-progressChunks)

	fmt.Fprintf(w, "%s %s ETA %02d:%02d:%02d", line, progressLine,
		int64(eta.Hours()), int64(eta.Minutes())%60, int64(eta.Seconds())%60)
}
