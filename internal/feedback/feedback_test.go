package feedback

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeWAV writes a 16-bit PCM WAV file.
func writeWAV(t *testing.T, name string, sampleRate, channels int, samples ...int16) string {
	t.Helper()
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	le := binary.LittleEndian
	hdr := make([]byte, 44)
	copy(hdr[0:], "RIFF")
	le.PutUint32(hdr[4:], uint32(36+len(data)))
	copy(hdr[8:], "WAVE")
	copy(hdr[12:], "fmt ")
	le.PutUint32(hdr[16:], 16)
	le.PutUint16(hdr[20:], 1)
	le.PutUint16(hdr[22:], uint16(channels))
	le.PutUint32(hdr[24:], uint32(sampleRate))
	le.PutUint32(hdr[28:], uint32(sampleRate*channels*2))
	le.PutUint16(hdr[32:], uint16(channels*2))
	le.PutUint16(hdr[34:], 16)
	copy(hdr[36:], "data")
	le.PutUint32(hdr[40:], uint32(len(data)))

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, append(hdr, data...), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func sampleAt(c *Cue, frame, ch int) int16 {
	return int16(binary.LittleEndian.Uint16(c.pcm[frame*playbackFrameSize+ch*playbackBytesPerSample:]))
}

func TestLoadCueResamplesMonoWAV(t *testing.T) {
	samples := make([]int16, 2400)
	for i := range samples {
		samples[i] = int16(i)
	}
	path := writeWAV(t, "tick.wav", 24000, 1, samples...)

	cue, err := LoadCue(path)
	if err != nil {
		t.Fatalf("LoadCue: %v", err)
	}
	if cue.Label != "tick" {
		t.Fatalf("expected label from file name, got %q", cue.Label)
	}
	if got := cue.Duration(); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %v", got)
	}
	if l, r := sampleAt(cue, 3, 0), sampleAt(cue, 3, 1); l != r || l != 1 {
		t.Fatalf("expected upmixed interpolated sample 1, got %d/%d", l, r)
	}
	if got := sampleAt(cue, 4, 0); got != 2 {
		t.Fatalf("expected sample 2 at frame 4, got %d", got)
	}
}

func TestLoadCueKeepsStereoWAV(t *testing.T) {
	path := writeWAV(t, "stereo.wav", playbackSampleRate, 2, 100, -100, 200, -200, 300, -300)
	cue, err := LoadCue(path)
	if err != nil {
		t.Fatalf("LoadCue: %v", err)
	}
	if got := len(cue.pcm) / playbackFrameSize; got != 3 {
		t.Fatalf("expected 3 frames, got %d", got)
	}
	if sampleAt(cue, 1, 0) != 200 || sampleAt(cue, 1, 1) != -200 {
		t.Fatalf("expected passthrough samples, got %d/%d", sampleAt(cue, 1, 0), sampleAt(cue, 1, 1))
	}
	if cue.Peak() != 300 {
		t.Fatalf("expected peak 300, got %d", cue.Peak())
	}
}

func TestLoadCueRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cue.aac")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCue(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadCueRejectsGarbageWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("definitely not a riff file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCue(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestNormalizeRejectsSurround(t *testing.T) {
	if _, err := normalize(pcm{samples: make([]int16, 6), sampleRate: 48000, channels: 6}); err == nil {
		t.Fatal("expected error for 6 channels")
	}
	if _, err := normalize(pcm{samples: make([]int16, 2), sampleRate: 0, channels: 1}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestClickDecays(t *testing.T) {
	c := Click()
	if c.Duration() != 30*time.Millisecond {
		t.Fatalf("expected 30ms click, got %v", c.Duration())
	}
	if c.Peak() == 0 || c.Peak() > 32767*35/100+1 {
		t.Fatalf("unexpected peak %d", c.Peak())
	}
	head, tail := 0, 0
	n := len(c.pcm) / playbackFrameSize
	for i := range n / 4 {
		head = max(head, abs(int(sampleAt(c, i, 0))))
		tail = max(tail, abs(int(sampleAt(c, n-1-i, 0))))
	}
	if tail >= head {
		t.Fatalf("expected click to decay, head %d tail %d", head, tail)
	}
}

func TestMutedPlayerCountsPlays(t *testing.T) {
	p := NewPlayer(nil, true)
	if p.Cue().Label != "click" {
		t.Fatalf("expected default click cue, got %q", p.Cue().Label)
	}
	for range 3 {
		if err := p.Play(); err != nil {
			t.Fatalf("Play: %v", err)
		}
	}
	if p.Plays() != 3 {
		t.Fatalf("expected 3 plays, got %d", p.Plays())
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
