package feedback

import (
	"encoding/binary"
	"fmt"
)

const (
	playbackSampleRate     = 48000
	playbackChannels       = 2
	playbackBytesPerSample = 2
	playbackFrameSize      = playbackChannels * playbackBytesPerSample
)

// normalize converts p to 48 kHz stereo s16le, upmixing mono and resampling
// with linear interpolation.
func normalize(p pcm) ([]byte, error) {
	if p.sampleRate <= 0 {
		return nil, fmt.Errorf("unsupported sample rate: %d", p.sampleRate)
	}
	if p.channels < 1 || p.channels > playbackChannels {
		return nil, fmt.Errorf("unsupported channel count: %d", p.channels)
	}

	srcFrames := p.frames()
	if srcFrames == 0 {
		return nil, nil
	}
	outFrames := int(int64(srcFrames) * playbackSampleRate / int64(p.sampleRate))
	if outFrames == 0 {
		outFrames = 1
	}

	frame := func(i int) [playbackChannels]int16 {
		i = min(i, srcFrames-1)
		var f [playbackChannels]int16
		for ch := range playbackChannels {
			f[ch] = p.samples[i*p.channels+min(ch, p.channels-1)]
		}
		return f
	}

	out := make([]byte, outFrames*playbackFrameSize)
	for i := range outFrames {
		num := int64(i) * int64(p.sampleRate)
		base := int(num / playbackSampleRate)
		frac := float64(num%playbackSampleRate) / playbackSampleRate
		a, b := frame(base), frame(base+1)
		for ch := range playbackChannels {
			s := float64(a[ch]) + (float64(b[ch])-float64(a[ch]))*frac
			off := i*playbackFrameSize + ch*playbackBytesPerSample
			binary.LittleEndian.PutUint16(out[off:], uint16(clamp16(int(s))))
		}
	}
	return out, nil
}
