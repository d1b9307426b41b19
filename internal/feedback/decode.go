package feedback

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned for cue files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported cue format")

// pcm is interleaved signed 16-bit audio at its source rate.
type pcm struct {
	samples    []int16
	sampleRate int
	channels   int
}

func (p pcm) frames() int {
	if p.channels == 0 {
		return 0
	}
	return len(p.samples) / p.channels
}

// decodeFile picks a decoder by extension and reads the whole file.
func decodeFile(path string) (pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcm{}, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".flac":
		return decodeFLAC(f)
	case ".ogg":
		return decodeOGG(f)
	default:
		return pcm{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func decodeWAV(r io.ReadSeeker) (pcm, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm{}, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return pcm{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	width := bitDepth / 8
	if width < 1 || width > 4 {
		return pcm{}, fmt.Errorf("unsupported WAV bit depth: %d", bitDepth)
	}
	raw, err := io.ReadAll(io.LimitReader(r, dec.PCMLen()))
	if err != nil {
		return pcm{}, fmt.Errorf("reading WAV samples: %w", err)
	}

	n := len(raw) / width
	out := make([]int16, n)
	for i := range n {
		off := i * width
		var sample int
		switch bitDepth {
		case 8:
			// 8-bit WAV is unsigned
			sample = (int(raw[off]) - 128) << 8
		case 16:
			sample = int(int16(binary.LittleEndian.Uint16(raw[off:])))
		case 24:
			s := int32(raw[off]) | int32(raw[off+1])<<8 | int32(raw[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF
			}
			sample = int(s >> 8)
		case 32:
			sample = int(int32(binary.LittleEndian.Uint32(raw[off:])) >> 16)
		}
		out[i] = clamp16(sample)
	}
	return pcm{samples: out, sampleRate: int(dec.SampleRate), channels: int(dec.NumChans)}, nil
}

func decodeMP3(r io.Reader) (pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding MP3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding MP3: %w", err)
	}
	// go-mp3 always produces 16-bit stereo.
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return pcm{samples: out, sampleRate: dec.SampleRate(), channels: 2}, nil
}

func decodeFLAC(r io.Reader) (pcm, error) {
	stream, err := flac.New(r)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bps := int(stream.Info.BitsPerSample)
	var out []int16
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm{}, fmt.Errorf("decoding FLAC: %w", err)
		}
		n := int(frame.Subframes[0].NSamples)
		for i := range n {
			for ch := range channels {
				sample := int(frame.Subframes[ch].Samples[i])
				switch {
				case bps > 16:
					sample >>= bps - 16
				case bps < 16:
					sample <<= 16 - bps
				}
				out = append(out, clamp16(sample))
			}
		}
	}
	return pcm{samples: out, sampleRate: int(stream.Info.SampleRate), channels: channels}, nil
}

func decodeOGG(r io.Reader) (pcm, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding OGG: %w", err)
	}
	var out []int16
	buf := make([]float32, 4096)
	for {
		n, err := reader.Read(buf)
		for _, s := range buf[:n] {
			out = append(out, floatTo16(s))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm{}, fmt.Errorf("decoding OGG: %w", err)
		}
	}
	return pcm{samples: out, sampleRate: reader.SampleRate(), channels: reader.Channels()}, nil
}

func clamp16(sample int) int16 {
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}

func floatTo16(s float32) int16 {
	s = min(1, max(-1, s))
	return int16(s * 32767)
}
