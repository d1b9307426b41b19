package main

import (
	"log"

	"github.com/olivier-w/mechanics/internal/feedback"
	"github.com/olivier-w/mechanics/internal/preset"
	"github.com/olivier-w/mechanics/internal/ui"
)

// buildPlayground resolves the preset and cue and creates the playground.
// status, when set, receives a line per step.
func buildPlayground(name, cuePath string, opts options, logger *log.Logger, status func(string)) (ui.Model, error) {
	report := func(s string) {
		if status != nil {
			status(s)
		}
	}

	p, err := preset.Get(name)
	if err != nil {
		return ui.Model{}, err
	}

	cue := feedback.Click()
	if cuePath != "" {
		report("Decoding " + cuePath + "...")
		cue, err = feedback.LoadCue(cuePath)
		if err != nil {
			return ui.Model{}, err
		}
		logger.Printf("cue %q: %s, peak %d", cue.Label, cue.Duration(), cue.Peak())
	}

	report("Building " + p.Name + "...")
	return ui.New(p, ui.Config{
		FPS:  opts.fps,
		Slop: opts.slop,
		Step: opts.step,
		Cue:  feedback.NewPlayer(cue, opts.mute),
		Log:  logger,
	})
}
