package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/mechanics/internal/preset"
	"github.com/olivier-w/mechanics/internal/ui"
)

type options struct {
	preset  string
	fps     int
	slop    float64
	step    float64
	cue     string
	mute    bool
	logPath string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("mechanics", flag.ContinueOnError)
	fs.StringVar(&o.preset, "preset", "", "open a preset directly ("+strings.Join(preset.Names(), ", ")+")")
	fs.IntVar(&o.fps, "fps", 60, "animation frames per second")
	fs.Float64Var(&o.slop, "slop", 2, "drag distance needed to reverse direction")
	fs.Float64Var(&o.step, "step", 1, "drag distance per key press")
	fs.StringVar(&o.cue, "cue", "", "sound file played on segment changes (wav, mp3, flac, ogg)")
	fs.BoolVar(&o.mute, "mute", false, "start with the cue muted")
	fs.StringVar(&o.logPath, "log", "", "append segment and tick events to this file")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if o.fps <= 0 || o.fps > 240 {
		return o, fmt.Errorf("fps must be between 1 and 240, got %d", o.fps)
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := log.New(io.Discard, "", 0)
	if opts.logPath != "" {
		f, err := tea.LogToFile(opts.logPath, "mechanics")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.Default()
	}

	var model tea.Model
	if opts.preset != "" {
		pm, err := buildPlayground(opts.preset, opts.cue, opts, logger, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		model = pm
	} else {
		model = newStartupModel(opts, logger)
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if pm, ok := final.(ui.Model); ok {
		if cerr := pm.Close(); cerr != nil {
			logger.Printf("closing cue: %v", cerr)
		}
		if pm.Err() != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", pm.Err())
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
