package predictor

import (
	"fmt"
)

type Layout int

const (
	// ChannelsLast is [H][W][C], the RGB24 screen buffer layout.
	ChannelsLast Layout = iota
	// ChannelsFirst is [C][H][W], the layout the network consumes.
	ChannelsFirst
)

// Frame is one observation borrowed from the game for the duration of a tick.
type Frame struct {
	Height   int
	Width    int
	Channels int
	Layout   Layout
	Pix      []uint8
}

// Normalize returns the frame as channel-first samples scaled to [0, 1].
func (f Frame) Normalize() ([]float32, error) {
	size := f.Height * f.Width * f.Channels
	if len(f.Pix) != size {
		return nil, fmt.Errorf("frame %dx%dx%d needs %d samples, has %d",
			f.Height, f.Width, f.Channels, size, len(f.Pix))
	}
	chw := make([]float32, size)
	switch f.Layout {
	case ChannelsFirst:
		for i, p := range f.Pix {
			chw[i] = float32(p) / 255
		}
	case ChannelsLast:
		plane := f.Height * f.Width
		for pos := 0; pos < plane; pos++ {
			for c := 0; c < f.Channels; c++ {
				chw[c*plane+pos] = float32(f.Pix[pos*f.Channels+c]) / 255
			}
		}
	default:
		return nil, fmt.Errorf("unknown frame layout %d", f.Layout)
	}
	return chw, nil
}
