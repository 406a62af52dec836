// specfall plays an audio file while rendering its spectrum as a live,
// scrolling 3D waterfall: one colored slice per analysis block, new slices
// entering at the origin and receding into the past as they age.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmarch/specfall/internal/media"
	"github.com/dmarch/specfall/internal/pipeline"
	"github.com/dmarch/specfall/internal/player"
	"github.com/dmarch/specfall/internal/render"
	"github.com/dmarch/specfall/internal/ui"
	"github.com/dmarch/specfall/internal/waterfall"
)

func main() {
	cfg := waterfall.DefaultConfig()
	terminal := flag.Bool("t", false, "render in the terminal instead of a window")
	logFile := flag.String("log-file", "", "append debug logs to this file (off by default)")
	flag.IntVar(&cfg.BlocksPerSec, "bps", cfg.BlocksPerSec, "target analysis blocks per second")
	flag.Float64Var(&cfg.Speed, "speed", cfg.Speed, "scroll speed in depth units per second")
	flag.Float64Var(&cfg.AmpScale, "amp", cfg.AmpScale, "amplitude-to-height scale")
	flag.IntVar(&cfg.MaxSlices, "depth", cfg.MaxSlices, "number of slices kept in history")
	flag.Float64Var(&cfg.FloorDB, "floor", cfg.FloorDB, "dB floor for color normalization")
	flag.Float64Var(&cfg.CeilDB, "ceil", cfg.CeilDB, "dB ceiling for color normalization")
	flag.StringVar(&cfg.Colormap, "cmap", cfg.Colormap, "colormap: viridis, magma or heat")
	flag.IntVar(&cfg.TickRate, "fps", cfg.TickRate, "render ticks per second")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: specfall [flags] [file]\n\nsupported formats: %s\n\n", media.SupportedExtsList())
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	path := flag.Arg(0)
	if path == "" {
		selected, err := browseForFile()
		if err != nil {
			fatal(err)
		}
		if selected == "" {
			return // cancelled
		}
		path = selected
	}

	if err := run(path, cfg, *terminal); err != nil {
		fatal(err)
	}
}

func browseForFile() (string, error) {
	browser := ui.NewBrowser()
	if browser.HasError() {
		return "", browser.Error()
	}
	finalModel, err := tea.NewProgram(browser, tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	bm, ok := finalModel.(ui.BrowserModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type from browser")
	}
	result := bm.Result()
	if result.Cancelled {
		return "", nil
	}
	return result.Path, nil
}

func run(path string, cfg waterfall.Config, terminal bool) error {
	src, err := player.OpenSource(path)
	if err != nil {
		return err
	}

	meta := player.ReadMetadata(path)
	info := player.InfoText(src, meta)
	log.Printf("opened %s: %s, %d Hz, %d ch, %d frames", path, src.Format, src.SampleRate, src.Channels, src.Frames)

	queue := pipeline.NewQueue()
	p, err := player.New(src, queue, cfg.BlocksPerSec)
	if err != nil {
		src.Close()
		return err
	}
	log.Printf("analysis block %d frames, %d bins", p.BlockSize(), p.NumBins())

	anim, err := waterfall.NewAnimator(queue, src.SampleRate, p.NumBins(), cfg)
	if err != nil {
		p.Close()
		return err
	}

	if terminal {
		model := ui.New(p, anim, meta, info, cfg)
		_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
		p.Close()
		return err
	}
	return render.NewWindow(anim, p, info).Run(cfg.TickRate)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
