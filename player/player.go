// Package player runs episodes of a game, asking a policy for one action per tick.
package player

import (
	"fmt"
	"time"

	"github.com/op/go-logging"

	"github.com/OutstandingWork/Demon-Slayer-AI/predictor"
	"github.com/OutstandingWork/Demon-Slayer-AI/record"
	"github.com/OutstandingWork/Demon-Slayer-AI/scenario"
)

var (
	log = logging.MustGetLogger("player")
)

// Game is the simulation side of the loop.
type Game interface {
	NewEpisode()
	IsEpisodeFinished() bool
	State() *scenario.State
	MakeAction(buttons []bool) float64
	TotalReward() float64
}

// Killer is implemented by games that can tell a won episode from a timeout.
type Killer interface {
	Killed() bool
}

type Policy interface {
	Name() string
	Act(frame predictor.Frame) (actionIdx int, err error)
}

type Options struct {
	Episodes  int
	SleepTime time.Duration
	// Recorder, when set, gets one record per finished episode.
	Recorder *record.Writer
}

type Result struct {
	Episode     int
	TotalReward float64
	Ticks       int
	Killed      bool
}

// Actions is one button combination per action index, in the order
// MOVE_LEFT, MOVE_RIGHT, ATTACK.
var Actions = [][]bool{
	{true, false, false},
	{false, true, false},
	{false, false, true},
}

// Frame wraps an RGB24 screen buffer without copying it.
func Frame(state *scenario.State) predictor.Frame {
	return predictor.Frame{
		Height:   state.Height,
		Width:    state.Width,
		Channels: 3,
		Layout:   predictor.ChannelsLast,
		Pix:      state.ScreenBuffer,
	}
}

// Play runs opts.Episodes episodes one after another. Each tick hands the
// current frame to the policy and feeds the chosen button combination back
// to the game before the next frame is requested.
func Play(game Game, policy Policy, actions [][]bool, opts Options) ([]Result, error) {
	if opts.Episodes < 0 {
		return nil, fmt.Errorf("episodes must be >= 0, got %d", opts.Episodes)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("no actions to choose from")
	}
	results := make([]Result, 0, opts.Episodes)
	for i := 0; i < opts.Episodes; i++ {
		log.Infof("Episode #%d", i+1)
		start := time.Now()
		game.NewEpisode()

		ticks := 0
		for !game.IsEpisodeFinished() {
			state := game.State()
			actionIdx, err := policy.Act(Frame(state))
			if err != nil {
				return results, fmt.Errorf("episode %d tick %d: %w", i, ticks, err)
			}
			if actionIdx < 0 || actionIdx >= len(actions) {
				return results, fmt.Errorf("%s chose action %d out of %d", policy.Name(), actionIdx, len(actions))
			}
			r := game.MakeAction(actions[actionIdx])
			ticks++
			log.Debugf("State #%d action %d reward %.1f", state.Number, actionIdx, r)

			if opts.SleepTime > 0 {
				time.Sleep(opts.SleepTime)
			}
		}

		result := Result{Episode: i, TotalReward: game.TotalReward(), Ticks: ticks}
		ending := "finished"
		if killer, ok := game.(Killer); ok {
			result.Killed = killer.Killed()
			ending = "timed out"
			if result.Killed {
				ending = "killed the monster"
			}
		}
		results = append(results, result)
		log.Infof("episode %d total reward %.1f, %s after %d ticks in %v",
			i, result.TotalReward, ending, ticks, time.Since(start))

		if opts.Recorder != nil {
			err := opts.Recorder.Write(record.Record{Episode: i, Reward: result.TotalReward, Ticks: ticks})
			if err != nil {
				return results, err
			}
		}
	}
	return results, nil
}
