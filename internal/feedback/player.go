package feedback

import (
	"bytes"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// maxVoices bounds how many cues may overlap.
const maxVoices = 4

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackSampleRate,
			ChannelCount: playbackChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// Player fires a cue on demand. The audio device is opened on first use.
type Player struct {
	cue    *Cue
	volume float64

	mu     sync.Mutex
	muted  bool
	voices []*oto.Player
	plays  int
}

// NewPlayer returns a player for cue. A nil cue uses Click.
func NewPlayer(cue *Cue, muted bool) *Player {
	if cue == nil {
		cue = Click()
	}
	return &Player{cue: cue, volume: 0.8, muted: muted}
}

// Cue returns the sample being played.
func (p *Player) Cue() *Cue { return p.cue }

// Muted reports whether Play is a no-op.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// SetMuted toggles playback.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Plays counts the cues started, including muted ones.
func (p *Player) Plays() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays
}

// Play starts the cue without waiting for it to finish.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays++
	if p.muted || len(p.cue.pcm) == 0 {
		return nil
	}

	ctx, err := initOto()
	if err != nil {
		return err
	}

	live := p.voices[:0]
	for _, v := range p.voices {
		if v.IsPlaying() {
			live = append(live, v)
		} else {
			v.Close()
		}
	}
	p.voices = live
	if len(p.voices) >= maxVoices {
		p.voices[0].Close()
		p.voices = p.voices[1:]
	}

	v := ctx.NewPlayer(bytes.NewReader(p.cue.pcm))
	v.SetVolume(p.volume)
	v.Play()
	p.voices = append(p.voices, v)
	return nil
}

// Close stops every playing cue.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for _, v := range p.voices {
		if err := v.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.voices = nil
	return first
}
