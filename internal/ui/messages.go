package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg time.Time
type playbackEndedMsg struct{}

// tickCmd schedules the next render tick. The waterfall animates on this
// cadence whether or not new spectra arrived.
func tickCmd(rate int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(rate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
