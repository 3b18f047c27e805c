package summary

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/OutstandingWork/Demon-Slayer-AI/record"
)

const (
	plotWidth  = 6.4 * vg.Inch
	plotHeight = 4.8 * vg.Inch
)

// newPlot lays out batch averages as one line, episode on x and the metric on
// y. The line is nil when there are no batches.
func newPlot(batches []Batch, metric record.Metric) (*plot.Plot, *plotter.Line, error) {
	p := plot.New()
	p.X.Label.Text = "episode"
	p.Y.Label.Text = string(metric)

	// an empty line has no data range, so the axes keep their defaults
	if len(batches) == 0 {
		return p, nil, nil
	}
	xys := make(plotter.XYs, len(batches))
	for i, batch := range batches {
		xys[i].X = batch.Episode
		xys[i].Y = batch.Metric
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("could not build the %s line: %w", metric, err)
	}
	p.Add(line)
	return p, line, nil
}

// Plot draws the batch averages and saves the chart at path. The image format
// follows the file extension.
func Plot(batches []Batch, metric record.Metric, path string) error {
	p, _, err := newPlot(batches, metric)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory for %s: %w", path, err)
		}
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("could not save graph to %s: %w", path, err)
	}
	log.Infof("Saved %s graph with %d points to %s", metric, len(batches), path)
	return nil
}
