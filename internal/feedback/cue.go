// Package feedback plays a short audio cue when a motion value changes
// segment, the terminal counterpart of a haptic tick.
package feedback

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Cue is a decoded sample ready for playback at 48 kHz stereo s16le.
type Cue struct {
	Label string
	pcm   []byte
}

// LoadCue decodes a WAV, MP3, FLAC or OGG file fully into memory.
func LoadCue(path string) (*Cue, error) {
	p, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading cue %s: %w", path, err)
	}
	raw, err := normalize(p)
	if err != nil {
		return nil, fmt.Errorf("loading cue %s: %w", path, err)
	}
	return &Cue{Label: cueLabel(path), pcm: raw}, nil
}

// Click synthesises a short decaying tone.
func Click() *Cue {
	const (
		freq  = 1800.0
		decay = 180.0
		gain  = 0.35
	)
	frames := playbackSampleRate * 30 / 1000
	raw := make([]byte, frames*playbackFrameSize)
	for i := range frames {
		t := float64(i) / playbackSampleRate
		s := gain * math.Exp(-decay*t) * math.Sin(2*math.Pi*freq*t)
		v := uint16(clamp16(int(s * 32767)))
		binary.LittleEndian.PutUint16(raw[i*playbackFrameSize:], v)
		binary.LittleEndian.PutUint16(raw[i*playbackFrameSize+playbackBytesPerSample:], v)
	}
	return &Cue{Label: "click", pcm: raw}
}

// Duration is the playback length.
func (c *Cue) Duration() time.Duration {
	frames := len(c.pcm) / playbackFrameSize
	return time.Duration(frames) * time.Second / playbackSampleRate
}

// Peak returns the largest absolute sample value.
func (c *Cue) Peak() int {
	peak := 0
	for i := 0; i+1 < len(c.pcm); i += playbackBytesPerSample {
		s := int(int16(binary.LittleEndian.Uint16(c.pcm[i:])))
		if s < 0 {
			s = -s
		}
		peak = max(peak, s)
	}
	return peak
}
