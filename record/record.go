package record

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/op/go-logging"
)

var (
	log = logging.MustGetLogger("record")
)

// maxLineSize bounds a single log line; longer lines are malformed.
const maxLineSize = 1024 * 1024

type Metric string

const (
	Reward Metric = "reward"
	Loss   Metric = "loss"
)

// Record is one line of the episode log.
type Record struct {
	Episode int      `json:"episode"`
	Reward  float64  `json:"reward"`
	Loss    *float64 `json:"loss,omitempty"`
	Ticks   int      `json:"ticks,omitempty"`
	RunID   string   `json:"run_id,omitempty"`
}

// Value returns the named metric and whether the record carries it.
func (r Record) Value(metric Metric) (float64, bool) {
	switch metric {
	case Reward:
		return r.Reward, true
	case Loss:
		if r.Loss == nil {
			return 0, false
		}
		return *r.Loss, true
	default:
		return 0, false
	}
}

// line mirrors Record with pointers so that absent keys can be told apart from zeros.
type line struct {
	Episode *int     `json:"episode"`
	Reward  *float64 `json:"reward"`
	Loss    *float64 `json:"loss"`
	Ticks   int      `json:"ticks"`
	RunID   string   `json:"run_id"`
}

// ParseLine decodes a single log line. lineNo is only used for error reporting.
func ParseLine(data []byte, lineNo int) (Record, error) {
	var l line
	if err := json.Unmarshal(data, &l); err != nil {
		return Record{}, &ParseError{Line: lineNo, Err: err}
	}
	if l.Episode == nil {
		return Record{}, &ParseError{Line: lineNo, Err: fmt.Errorf("missing %q", "episode")}
	}
	if *l.Episode < 0 {
		return Record{}, &ParseError{Line: lineNo, Err: fmt.Errorf("negative episode %d", *l.Episode)}
	}
	if l.Reward == nil {
		return Record{}, &ParseError{Line: lineNo, Err: fmt.Errorf("missing %q", "reward")}
	}
	return Record{
		Episode: *l.Episode,
		Reward:  *l.Reward,
		Loss:    l.Loss,
		Ticks:   l.Ticks,
		RunID:   l.RunID,
	}, nil
}

// Read loads every record of the log at path in file order. It stops at the
// first malformed line; blank lines are skipped.
func Read(path string) ([]Record, error) {
	logFile, err := os.Open(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	defer logFile.Close()

	records := make([]Record, 0)
	scanner := bufio.NewScanner(logFile)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		record, err := ParseLine(data, lineNo)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Line: lineNo + 1, Err: err}
		}
		return nil, &FileReadError{Path: path, Err: err}
	}
	log.Debugf("Read %d records from %s", len(records), path)
	return records, nil
}
