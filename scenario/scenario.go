// Package scenario is a small stand-in for the "basic" game scenario: the
// player faces a wall with one monster on it and can strafe left, strafe
// right or shoot. Episodes are reproducible from the seed.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/op/go-logging"

	"github.com/OutstandingWork/Demon-Slayer-AI/config"
)

var (
	log = logging.MustGetLogger("scenario")
)

type Button int

const (
	MoveLeft Button = iota
	MoveRight
	Attack
)

func (b Button) String() string {
	switch b {
	case MoveLeft:
		return "MOVE_LEFT"
	case MoveRight:
		return "MOVE_RIGHT"
	case Attack:
		return "ATTACK"
	default:
		return fmt.Sprintf("BUTTON_%d", int(b))
	}
}

const (
	killReward = 101.0
	missReward = -5.0

	strafeStep  = 4
	hitRadius   = 6
	monsterHalf = 8
	roomWidth   = 320
)

type Options struct {
	ScreenWidth      int
	ScreenHeight     int
	EpisodeTimeout   int
	EpisodeStartTime int
	LivingReward     float64
	Seed             int64
}

func DefaultOptions() Options {
	return Options{
		ScreenWidth:      config.Int["image_width"],
		ScreenHeight:     config.Int["image_height"],
		EpisodeTimeout:   config.Int["episode_timeout"],
		EpisodeStartTime: config.Int["episode_start_time"],
		LivingReward:     config.Float["living_reward"],
		Seed:             int64(config.Int["random_seed"]),
	}
}

// State is what the game exposes each tick.
type State struct {
	Number int
	// ScreenBuffer is RGB24, [Height][Width][3].
	ScreenBuffer []uint8
	Height       int
	Width        int
}

type Basic struct {
	opts Options
	rng  *rand.Rand

	playerX     int
	monsterX    int
	tic         int
	finished    bool
	killed      bool
	totalReward float64
}

func New(opts Options) (*Basic, error) {
	if opts.ScreenWidth <= 0 || opts.ScreenHeight <= 0 {
		return nil, config.Errorf("screen resolution", "%dx%d", opts.ScreenWidth, opts.ScreenHeight)
	}
	if opts.EpisodeTimeout <= opts.EpisodeStartTime {
		return nil, config.Errorf("episode timeout", "%d does not leave any tick after start time %d",
			opts.EpisodeTimeout, opts.EpisodeStartTime)
	}
	game := &Basic{opts: opts, rng: rand.New(rand.NewSource(opts.Seed))}
	game.NewEpisode()
	return game, nil
}

func (game *Basic) AvailableButtons() []Button {
	return []Button{MoveLeft, MoveRight, Attack}
}

// NewEpisode places the monster at a random spot on the far wall and skips
// the start time ticks.
func (game *Basic) NewEpisode() {
	game.playerX = roomWidth / 2
	game.monsterX = monsterHalf + game.rng.Intn(roomWidth-2*monsterHalf)
	game.tic = game.opts.EpisodeStartTime
	game.finished = false
	game.killed = false
	game.totalReward = 0
	log.Debugf("New episode with monster at %d, player at %d", game.monsterX, game.playerX)
}

// MakeAction presses the given buttons for one tick and returns the reward.
func (game *Basic) MakeAction(buttons []bool) float64 {
	if game.finished {
		log.Warningf("MakeAction on a finished episode")
		return 0
	}
	if len(buttons) != len(game.AvailableButtons()) {
		log.Panicf("Got %d buttons, the scenario has %d", len(buttons), len(game.AvailableButtons()))
	}

	reward := game.opts.LivingReward
	if buttons[MoveLeft] {
		game.playerX -= strafeStep
	}
	if buttons[MoveRight] {
		game.playerX += strafeStep
	}
	game.playerX = clamp(game.playerX, 0, roomWidth-1)

	if buttons[Attack] {
		if abs(game.playerX-game.monsterX) <= hitRadius {
			reward += killReward
			game.killed = true
			game.finished = true
		} else {
			reward += missReward
		}
	}

	game.tic++
	if game.tic >= game.opts.EpisodeTimeout {
		game.finished = true
	}
	game.totalReward += reward
	return reward
}

func (game *Basic) IsEpisodeFinished() bool {
	return game.finished
}

func (game *Basic) Killed() bool {
	return game.killed
}

func (game *Basic) TotalReward() float64 {
	return game.totalReward
}

// State renders the current view. It returns nil once the episode is over.
func (game *Basic) State() *State {
	if game.finished {
		return nil
	}
	w, h := game.opts.ScreenWidth, game.opts.ScreenHeight
	screen := make([]uint8, w*h*3)
	horizon := h / 2
	for y := 0; y < h; y++ {
		color := [3]uint8{72, 72, 72}
		if y >= horizon {
			color = [3]uint8{112, 96, 80}
		}
		for x := 0; x < w; x++ {
			copy(screen[(y*w+x)*3:], color[:])
		}
	}

	// the view is centered on the player; room units map one to one onto columns
	center := game.monsterX - game.playerX + w/2
	top, bottom := horizon-h/6, horizon+h/12
	for y := max(top, 0); y < min(bottom, h); y++ {
		for x := max(center-monsterHalf, 0); x < min(center+monsterHalf, w); x++ {
			copy(screen[(y*w+x)*3:], []uint8{160, 32, 24})
		}
	}
	return &State{
		Number:       game.tic - game.opts.EpisodeStartTime + 1,
		ScreenBuffer: screen,
		Height:       h,
		Width:        w,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
