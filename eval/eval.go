package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/op/go-logging"

	"github.com/OutstandingWork/Demon-Slayer-AI/config"
	"github.com/OutstandingWork/Demon-Slayer-AI/summary"
)

var (
	log = logging.MustGetLogger("eval")
)

// optionalInt is an int flag that remembers whether it was given.
type optionalInt struct {
	value *int
}

func (o *optionalInt) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.Itoa(*o.value)
}

func (o *optionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	o.value = &v
	return nil
}

func run(args []string) error {
	flags := flag.NewFlagSet("eval", flag.ContinueOnError)
	inLogfile := flags.String("in-logfile", config.String["in_logfile"], "episode log, one JSON object per line")
	var maxEpisode optionalInt
	flags.Var(&maxEpisode, "max-episode", "ignore episodes above this one")
	yAxis := flags.String("y-axis", config.String["y_axis"], "metric to average: reward or loss")
	batchSize := flags.Int("batch-size", config.Int["average_over"], "episodes per averaged point")
	out := flags.String("out", config.String["graph_path"], "where to save the graph")
	verbose := flags.Bool("verbose", false, "debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}

	level := logging.INFO
	if *verbose {
		level = logging.DEBUG
	}
	config.SetupLogging(os.Stderr, level, "eval", "record", "summary")

	metric, err := summary.ParseMetric(*yAxis)
	if err != nil {
		return err
	}
	if *batchSize <= 0 {
		return config.Errorf("batch size", "%d is not positive", *batchSize)
	}
	batches, err := summary.SummarizeFile(*inLogfile, summary.Options{
		MaxEpisode: maxEpisode.value,
		Metric:     metric,
		BatchSize:  *batchSize,
	})
	if err != nil {
		return err
	}
	for _, batch := range batches {
		log.Debugf("episode %.1f %s %.4f", batch.Episode, metric, batch.Metric)
	}
	return summary.Plot(batches, metric, *out)
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
