// Package summary smooths an episode log into fixed-size batch averages and
// plots them.
package summary

import (
	"fmt"

	"github.com/op/go-logging"

	"github.com/OutstandingWork/Demon-Slayer-AI/config"
	"github.com/OutstandingWork/Demon-Slayer-AI/record"
)

var (
	log = logging.MustGetLogger("summary")
)

const DefaultBatchSize = 50

// Batch is the average of one full window of consecutive records.
type Batch struct {
	Episode float64
	Metric  float64
}

type Options struct {
	// MaxEpisode, when set, drops every record with a larger episode before batching.
	MaxEpisode *int
	// Metric defaults to record.Reward when empty.
	Metric record.Metric
	// BatchSize defaults to DefaultBatchSize when zero.
	BatchSize int
}

// MissingFieldError reports a record that lacks the metric being averaged.
type MissingFieldError struct {
	Episode int
	Field   record.Metric
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record for episode %d has no %q", e.Episode, e.Field)
}

func ParseMetric(name string) (record.Metric, error) {
	switch metric := record.Metric(name); metric {
	case record.Reward, record.Loss:
		return metric, nil
	default:
		return "", config.Errorf("metric", "%q is not one of %q, %q", name, record.Reward, record.Loss)
	}
}

// Summarize averages records in file order over consecutive windows of
// opts.BatchSize. A trailing window that is not full is dropped, so the
// result has len(filtered)/BatchSize entries.
func Summarize(records []record.Record, opts Options) ([]Batch, error) {
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize < 0 {
		return nil, config.Errorf("batch size", "%d is negative", batchSize)
	}
	metric := opts.Metric
	if metric == "" {
		metric = record.Reward
	}
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}

	episodes := make([]float64, 0, len(records))
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if opts.MaxEpisode != nil && r.Episode > *opts.MaxEpisode {
			continue
		}
		value, ok := r.Value(metric)
		if !ok {
			return nil, &MissingFieldError{Episode: r.Episode, Field: metric}
		}
		episodes = append(episodes, float64(r.Episode))
		values = append(values, value)
	}

	numBatches := len(episodes) / batchSize
	batches := make([]Batch, 0, numBatches)
	for b := 0; b < numBatches; b++ {
		bStart := b * batchSize
		bEnd := bStart + batchSize
		batches = append(batches, Batch{
			Episode: mean(episodes[bStart:bEnd]),
			Metric:  mean(values[bStart:bEnd]),
		})
	}
	log.Infof("Averaged %d of %d records into %d batches of %d",
		numBatches*batchSize, len(records), numBatches, batchSize)
	return batches, nil
}

// SummarizeFile reads the log at path and summarizes it.
func SummarizeFile(path string, opts Options) ([]Batch, error) {
	records, err := record.Read(path)
	if err != nil {
		return nil, err
	}
	return Summarize(records, opts)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
