package predictor

import (
	"github.com/OutstandingWork/Demon-Slayer-AI/config"
)

const (
	featurePlanes = 16
	kernelSize    = 3
	poolSize      = 4
)

// Config fixes the input shape and the number of actions. The layer stack
// itself is not configurable.
type Config struct {
	Height     int
	Width      int
	Channels   int
	NumActions int
}

func DefaultConfig(numActions int) Config {
	return Config{
		Height:     config.Int["image_height"],
		Width:      config.Int["image_width"],
		Channels:   config.Int["image_channels"],
		NumActions: numActions,
	}
}

// pooled is the spatial size left after both max-pools; pooling floors.
func (c Config) pooled() (h, w int) {
	return c.Height / poolSize / poolSize, c.Width / poolSize / poolSize
}

// FlattenedSize is the input width of the fully-connected layer.
func (c Config) FlattenedSize() int {
	h, w := c.pooled()
	return h * w * featurePlanes
}

// Validate rejects shapes the network cannot take. Both pools floor, so sides
// need not be multiples of 16, only at least 16.
func (c Config) Validate() error {
	if c.Height <= 0 || c.Width <= 0 {
		return config.Errorf("frame size", "%dx%d is not positive", c.Height, c.Width)
	}
	if c.Channels != 3 {
		return config.Errorf("channels", "got %d, the network takes 3 color channels", c.Channels)
	}
	if c.NumActions < 1 {
		return config.Errorf("num actions", "got %d, need at least one", c.NumActions)
	}
	if h, w := c.pooled(); h == 0 || w == 0 {
		return config.Errorf("frame size", "%dx%d pools down to %dx%d, both sides must be at least %d",
			c.Height, c.Width, h, w, poolSize*poolSize)
	}
	return nil
}
