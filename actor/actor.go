package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/op/go-logging"

	"github.com/OutstandingWork/Demon-Slayer-AI/config"
	"github.com/OutstandingWork/Demon-Slayer-AI/player"
	"github.com/OutstandingWork/Demon-Slayer-AI/predictor"
	"github.com/OutstandingWork/Demon-Slayer-AI/randomplay"
	"github.com/OutstandingWork/Demon-Slayer-AI/record"
	"github.com/OutstandingWork/Demon-Slayer-AI/scenario"
)

var (
	log = logging.MustGetLogger("actor")
)

func run(args []string) error {
	flags := flag.NewFlagSet("actor", flag.ContinueOnError)
	episodes := flags.Int("episodes", config.Int["episodes"], "number of episodes to play")
	seed := flags.Int64("seed", int64(config.Int["random_seed"]), "seed for the scenario and the network weights")
	outLogfile := flags.String("out-logfile", config.String["out_logfile"], "episode log to append to")
	random := flags.Bool("random", false, "play uniformly random actions instead of the network")
	sleepTime := flags.Duration("sleep", time.Duration(config.Float["sleep_time"]*float64(time.Second)), "pause after every action")
	verbose := flags.Bool("verbose", false, "log every tick")
	if err := flags.Parse(args); err != nil {
		return err
	}

	level := logging.INFO
	if *verbose {
		level = logging.DEBUG
	}
	config.SetupLogging(os.Stderr, level, "actor", "player", "predictor", "randomplay", "record", "scenario")

	opts := scenario.DefaultOptions()
	opts.Seed = *seed
	game, err := scenario.New(opts)
	if err != nil {
		return err
	}
	log.Infof("Available buttons: %v", game.AvailableButtons())

	rng := rand.New(rand.NewSource(*seed))
	var policy player.Policy
	if *random {
		policy = randomplay.New(len(player.Actions), rng)
	} else {
		net, err := predictor.New(predictor.DefaultConfig(len(player.Actions)), rng)
		if err != nil {
			return err
		}
		defer net.Close()
		policy = player.NetPolicy{Net: net}
	}

	writer, err := record.Create(*outLogfile)
	if err != nil {
		return err
	}
	defer writer.Close()
	log.Infof("%s playing %d episodes as run %s, logging to %s", policy.Name(), *episodes, writer.RunID(), *outLogfile)

	results, err := player.Play(game, policy, player.Actions, player.Options{
		Episodes:  *episodes,
		SleepTime: *sleepTime,
		Recorder:  writer,
	})
	if err != nil {
		return err
	}
	total := 0.0
	for _, result := range results {
		total += result.TotalReward
	}
	if len(results) > 0 {
		log.Infof("Mean total reward over %d episodes: %.2f", len(results), total/float64(len(results)))
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		log.Criticalf("%v", err)
		os.Exit(1)
	}
}
