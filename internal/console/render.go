package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/heuermh/osc-looper/internal/looper"
)

// Style applies ANSI style codes to text.
func Style(s string, codes ...string) string {
	if len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + Reset
}

// StateColor returns the color code used for a loop state.
func StateColor(state looper.State) string {
	switch state {
	case looper.StateRecording:
		return FgRed
	case looper.StatePlaying:
		return FgGreen
	case looper.StateSuspended:
		return FgBrightBlack
	default:
		return ""
	}
}

// StatusLine summarizes a session snapshot on one line, top loop first:
//
//	2 loops | recording 3 ev | playing 4 ev 1.50s | 1 undone
func StatusLine(snap []looper.LoopInfo, color bool) string {
	var parts []string
	active, undone := 0, 0
	for _, info := range snap {
		if info.Undone {
			undone++
			continue
		}
		active++
		parts = append(parts, loopSummary(info, color))
	}

	head := fmt.Sprintf("%d loops", active)
	if active == 1 {
		head = "1 loop"
	}
	parts = append([]string{head}, parts...)
	if undone > 0 {
		parts = append(parts, fmt.Sprintf("%d undone", undone))
	}
	return strings.Join(parts, " | ")
}

func loopSummary(info looper.LoopInfo, color bool) string {
	state := info.State.String()
	if color {
		state = Style(state, StateColor(info.State))
	}
	s := fmt.Sprintf("%s %d ev", state, info.Events)
	if info.State != looper.StateRecording {
		s += " " + formatLength(info.Length)
	}
	return s
}

// Report describes every loop of a snapshot, one line each.
func Report(snap []looper.LoopInfo) []string {
	if len(snap) == 0 {
		return []string{"no loops"}
	}
	lines := make([]string, 0, len(snap))
	for i, info := range snap {
		stack := "active"
		if info.Undone {
			stack = "undone"
		}
		lines = append(lines, fmt.Sprintf("%2d %-6s %s %-9s events=%d length=%s sent=%d failed=%d cycles=%d",
			i+1, stack, shortID(info.ID), info.State, info.Events, formatLength(info.Length),
			info.Sent, info.Failed, info.Cycles))
	}
	return lines
}

func formatLength(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
