package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmarch/specfall/internal/player"
	"github.com/dmarch/specfall/internal/waterfall"
)

func TestHandlePlaybackEndedMsgMarksFinished(t *testing.T) {
	m := Model{player: new(player.Player)}
	next, cmd := m.handleMsg(playbackEndedMsg{})
	if !next.finished {
		t.Fatal("expected model to be marked finished")
	}
	if cmd != nil {
		t.Fatal("expected no command: the tick loop keeps the waterfall draining")
	}
}

func TestHandleWindowSizeMsg(t *testing.T) {
	m := Model{player: new(player.Player)}
	next, _ := m.handleMsg(tea.WindowSizeMsg{Width: 120, Height: 40})
	if next.width != 120 || next.height != 40 {
		t.Fatalf("size = %dx%d, want 120x40", next.width, next.height)
	}
}

func TestWindowTitle(t *testing.T) {
	if got := windowTitle("tone", false); got != "specfall - tone" {
		t.Errorf("windowTitle = %q", got)
	}
	if got := windowTitle("tone", true); !strings.Contains(got, "(paused)") {
		t.Errorf("paused title = %q, want paused marker", got)
	}
}

func TestInfoLineKeepsDisplayFacts(t *testing.T) {
	info := "tone\nFile: /tmp/tone.wav\nFormat: WAV\nSample rate: 44100 Hz\nChannels: 2\nFrames: 44100\nDuration: 1.00 s"
	line := infoLine(info)
	for _, want := range []string{"Format: WAV", "Sample rate: 44100 Hz", "Channels: 2", "Duration: 1.00 s"} {
		if !strings.Contains(line, want) {
			t.Errorf("info line missing %q: %q", want, line)
		}
	}
	if strings.Contains(line, "File:") {
		t.Errorf("info line should drop the path, got %q", line)
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	full := renderProgressBar(10, 5, 40)
	if strings.Contains(full, "─") {
		t.Error("overshot progress should render a full bar")
	}
	empty := renderProgressBar(-1, 5, 40)
	if strings.Contains(empty, "━") {
		t.Error("negative progress should render an empty bar")
	}
}

func TestRenderVolumePercent(t *testing.T) {
	if got := renderVolumePercent(0.8); got != "vol 80%" {
		t.Errorf("renderVolumePercent = %q", got)
	}
}

func testHistory(t *testing.T, slices int) *waterfall.History {
	t.Helper()
	cmap, err := waterfall.Lookup("viridis")
	if err != nil {
		t.Fatal(err)
	}
	h := waterfall.NewHistory(100, 5.0)
	axis := waterfall.FreqAxis(44100, 16)
	for i := 0; i < slices; i++ {
		spectrum := make([]float64, 16)
		for j := range spectrum {
			spectrum[j] = -float64(j * 6)
		}
		h.Append(waterfall.NewSlice(spectrum, axis, 0.05, cmap, -100, 0))
	}
	return h
}

func TestWaterfallViewRenderShape(t *testing.T) {
	v := newWaterfallView(waterfall.DefaultConfig())
	out := v.Render(testHistory(t, 10), 40, 12)
	if got := strings.Count(out, "\n"); got != 11 {
		t.Fatalf("rendered %d newlines, want 11 for 12 rows", got)
	}
}

func TestWaterfallViewRenderEmptyHistory(t *testing.T) {
	v := newWaterfallView(waterfall.DefaultConfig())
	out := v.Render(testHistory(t, 0), 40, 6)
	if got := strings.Count(out, "\n"); got != 5 {
		t.Fatalf("rendered %d newlines, want 5 for 6 rows", got)
	}
}

func TestSpringFieldEasesTowardTarget(t *testing.T) {
	s := newSpringField(60, 8.5, 0.72)
	s.resize(1)
	var prev float64
	for i := 0; i < 30; i++ {
		prev = s.step(0, 1.0)
	}
	if prev <= 0.1 {
		t.Fatalf("spring barely moved after 30 steps: %v", prev)
	}
	next := s.step(0, 1.0)
	if next == prev && prev < 0.5 {
		t.Fatal("spring stalled before reaching target")
	}
}
