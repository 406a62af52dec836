// Package ui is the terminal front end: a Bubbletea program whose tick
// drives the waterfall animator, plus the startup file browser.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmarch/specfall/internal/player"
	"github.com/dmarch/specfall/internal/util"
	"github.com/dmarch/specfall/internal/waterfall"
)

// Model is the Bubbletea model for the playback screen.
type Model struct {
	player   *player.Player
	anim     *waterfall.Animator
	view     *waterfallView
	metadata player.Metadata
	info     string

	tickRate int
	lastTick time.Time
	elapsed  time.Duration
	duration time.Duration
	volume   float64
	paused   bool
	finished bool
	width    int
	height   int
	quitting bool
}

// New creates a playback Model around a running player and its animator.
func New(p *player.Player, anim *waterfall.Animator, meta player.Metadata, info string, cfg waterfall.Config) Model {
	return Model{
		player:   p,
		anim:     anim,
		view:     newWaterfallView(cfg),
		metadata: meta,
		info:     info,
		tickRate: cfg.TickRate,
		duration: p.Duration(),
		volume:   p.Volume(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tickRate), checkDone(m.player), tea.SetWindowTitle(windowTitle(m.metadata.Title, false)))
}

func checkDone(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{}
	}
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "specfall - " + title + " (paused)"
	}
	return "specfall - " + title
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			m.player.Close()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		switch msg.String() {
		case " ":
			m.player.TogglePause()
			m.paused = m.player.Paused()
			return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, m.paused))
		case "left", "h":
			m.player.Seek(-5 * time.Second)
		case "right", "l":
			m.player.Seek(5 * time.Second)
		case "up", "k":
			m.player.AdjustVolume(0.05)
			m.volume = m.player.Volume()
		case "down", "j":
			m.player.AdjustVolume(-0.05)
			m.volume = m.player.Volume()
		}
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if m.lastTick.IsZero() {
			m.lastTick = now
		}
		dt := now.Sub(m.lastTick).Seconds()
		m.lastTick = now

		// Advance-then-append happens inside Step; the history keeps
		// scrolling after playback ends until the queue is drained dry.
		m.anim.Step(dt)

		m.elapsed = m.player.Position()
		m.volume = m.player.Volume()
		m.paused = m.player.Paused()
		return m, tickCmd(m.tickRate)

	case playbackEndedMsg:
		m.finished = true
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	var b strings.Builder

	b.WriteString(" " + titleStyle.Render(m.metadata.Title))
	if m.metadata.Artist != "" {
		b.WriteString("  " + artistStyle.Render(m.metadata.Artist))
	}
	b.WriteByte('\n')
	b.WriteString(" " + infoStyle.Render(infoLine(m.info)) + "\n")

	// Header is 2 rows, footer 3.
	vizHeight := height - 5
	if vizHeight < 2 {
		vizHeight = 2
	}
	b.WriteString(m.view.Render(m.anim.History(), width-2, vizHeight))
	b.WriteByte('\n')

	b.WriteString(" " + renderProgressBar(m.elapsed.Seconds(), m.duration.Seconds(), width) + "\n")

	status := util.FormatDuration(m.elapsed) + " / " + util.FormatDuration(m.duration)
	switch {
	case m.paused:
		status += "  [paused]"
	case m.finished:
		status += "  [finished]"
	}
	if err := m.player.Err(); err != nil {
		status += "  device: " + err.Error()
	}
	b.WriteString(" " + timeStyle.Render(status) + "  " + statusStyle.Render(renderVolumePercent(m.volume)) + "\n")
	b.WriteString(" " + helpStyle.Render(helpText()))

	return b.String()
}

// infoLine compresses the multi-line overlay block into a single header
// line for the terminal layout.
func infoLine(info string) string {
	fields := strings.Split(info, "\n")
	var keep []string
	for _, f := range fields {
		if strings.HasPrefix(f, "Format:") || strings.HasPrefix(f, "Sample rate:") ||
			strings.HasPrefix(f, "Channels:") || strings.HasPrefix(f, "Duration:") {
			keep = append(keep, strings.TrimSpace(f))
		}
	}
	return strings.Join(keep, "  ")
}
