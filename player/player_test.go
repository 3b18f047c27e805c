package player

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op/go-logging"

	"github.com/OutstandingWork/Demon-Slayer-AI/predictor"
	"github.com/OutstandingWork/Demon-Slayer-AI/randomplay"
	"github.com/OutstandingWork/Demon-Slayer-AI/record"
	"github.com/OutstandingWork/Demon-Slayer-AI/scenario"
)

func TestSetup(t *testing.T) {
	logFormat := logging.MustStringFormatter(`%{time:15:04:05.000000} %{shortfunc}() ▶ %{message}`)
	formattedBackend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), logFormat)
	logging.SetBackend(formattedBackend)
	logging.SetLevel(logging.INFO, "player")
}

// countdownGame ends every episode after length ticks and rewards the index of
// the pressed button.
type countdownGame struct {
	length   int
	tic      int
	episodes int
	total    float64
	pressed  [][]bool
}

func (g *countdownGame) NewEpisode() {
	g.tic = 0
	g.total = 0
	g.episodes++
}

func (g *countdownGame) IsEpisodeFinished() bool { return g.tic >= g.length }

func (g *countdownGame) State() *scenario.State {
	return &scenario.State{Number: g.tic + 1, Height: 1, Width: 1, ScreenBuffer: []uint8{1, 2, 3}}
}

func (g *countdownGame) MakeAction(buttons []bool) float64 {
	g.pressed = append(g.pressed, buttons)
	g.tic++
	for i, b := range buttons {
		if b {
			g.total += float64(i)
			return float64(i)
		}
	}
	return 0
}

func (g *countdownGame) TotalReward() float64 { return g.total }

type fixedPolicy struct {
	actionIdx int
	frames    int
}

func (p *fixedPolicy) Name() string { return "fixed" }

func (p *fixedPolicy) Act(frame predictor.Frame) (int, error) {
	p.frames++
	if frame.Layout != predictor.ChannelsLast || len(frame.Pix) != 3 {
		return 0, errors.New("unexpected frame")
	}
	return p.actionIdx, nil
}

func TestPlayRecordsEveryEpisode(t *testing.T) {
	game := &countdownGame{length: 4}
	policy := &fixedPolicy{actionIdx: 2}
	var buf bytes.Buffer
	writer := record.NewWriter(&buf)

	results, err := Play(game, policy, Actions, Options{Episodes: 3, Recorder: writer})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || game.episodes != 3 {
		t.Fatalf("played %d episodes with %d results, want 3", game.episodes, len(results))
	}
	if policy.frames != 12 {
		t.Errorf("policy saw %d frames, want 12", policy.frames)
	}
	for i, result := range results {
		if result.Episode != i || result.TotalReward != 8 || result.Ticks != 4 {
			t.Errorf("result %d = %+v", i, result)
		}
	}
	for _, buttons := range game.pressed {
		if !buttons[2] || buttons[0] || buttons[1] {
			t.Fatalf("pressed %v, want ATTACK only", buttons)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("wrote %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		r, err := record.ParseLine([]byte(line), i+1)
		if err != nil {
			t.Fatal(err)
		}
		if r.Episode != i || r.Reward != 8 || r.Ticks != 4 || r.RunID != writer.RunID() {
			t.Errorf("line %d = %+v", i, r)
		}
	}
}

// huntingGame ends an episode with a kill as soon as ATTACK is pressed.
type huntingGame struct {
	countdownGame
	killed bool
}

func (g *huntingGame) NewEpisode() {
	g.countdownGame.NewEpisode()
	g.killed = false
}

func (g *huntingGame) IsEpisodeFinished() bool {
	return g.killed || g.countdownGame.IsEpisodeFinished()
}

func (g *huntingGame) MakeAction(buttons []bool) float64 {
	g.killed = buttons[2]
	return g.countdownGame.MakeAction(buttons)
}

func (g *huntingGame) Killed() bool { return g.killed }

func TestPlayReportsKills(t *testing.T) {
	hunter := &huntingGame{countdownGame: countdownGame{length: 5}}
	results, err := Play(hunter, &fixedPolicy{actionIdx: 2}, Actions, Options{Episodes: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, result := range results {
		if !result.Killed || result.Ticks != 1 {
			t.Errorf("result %+v, want a kill on the first tick", result)
		}
	}

	results, err = Play(&huntingGame{countdownGame: countdownGame{length: 3}}, &fixedPolicy{actionIdx: 0}, Actions, Options{Episodes: 1})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Killed || results[0].Ticks != 3 {
		t.Errorf("result %+v, want a timeout after 3 ticks", results[0])
	}

	// games without a notion of kills never report one
	results, err = Play(&countdownGame{length: 1}, &fixedPolicy{actionIdx: 2}, Actions, Options{Episodes: 1})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Killed {
		t.Errorf("countdownGame reported a kill")
	}
}

func TestPlayRejectsOutOfRangeAction(t *testing.T) {
	_, err := Play(&countdownGame{length: 2}, &fixedPolicy{actionIdx: 3}, Actions, Options{Episodes: 1})
	if err == nil {
		t.Fatal("Play accepted action 3 of 3")
	}
}

func TestPlayWithoutEpisodes(t *testing.T) {
	game := &countdownGame{length: 2}
	results, err := Play(game, &fixedPolicy{}, Actions, Options{})
	if err != nil || len(results) != 0 || game.episodes != 0 {
		t.Errorf("Play with no episodes = %v, %v after %d episodes", results, err, game.episodes)
	}
}

func TestNetPolicyPlaysScenario(t *testing.T) {
	opts := scenario.DefaultOptions()
	opts.EpisodeTimeout = opts.EpisodeStartTime + 5
	game, err := scenario.New(opts)
	if err != nil {
		t.Fatal(err)
	}
	net, err := predictor.New(predictor.DefaultConfig(len(Actions)), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	defer net.Close()

	results, err := Play(game, NetPolicy{Net: net}, Actions, Options{Episodes: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, result := range results {
		if result.Ticks < 1 || result.Ticks > 5 {
			t.Errorf("episode %d lasted %d ticks", result.Episode, result.Ticks)
		}
	}
}

func TestRandomAgentPlaysScenario(t *testing.T) {
	game, err := scenario.New(scenario.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "log.txt")
	writer, err := record.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	agent := randomplay.New(len(Actions), rand.New(rand.NewSource(5)))
	if _, err := Play(game, agent, Actions, Options{Episodes: 4, Recorder: writer}); err != nil {
		t.Fatal(err)
	}
	writer.Close()

	records, err := record.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Errorf("log has %d records, want 4", len(records))
	}
}
