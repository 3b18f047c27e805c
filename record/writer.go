package record

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/satori/go.uuid"
)

// Writer appends records to an episode log, one JSON object per line, and
// stamps each with the run id it was created with.
type Writer struct {
	w      io.Writer
	closer io.Closer
	runID  string
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, runID: uuid.Must(uuid.NewV4()).String()}
}

// Create opens path for appending, creating it if needed.
func Create(path string) (*Writer, error) {
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open episode log %s: %w", path, err)
	}
	writer := NewWriter(logFile)
	writer.closer = logFile
	return writer, nil
}

func (writer *Writer) RunID() string {
	return writer.runID
}

func (writer *Writer) Write(record Record) error {
	if record.RunID == "" {
		record.RunID = writer.runID
	}
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not json-encode the record %+v: %w", record, err)
	}
	recordBytes = append(recordBytes, '\n')
	nWritten, err := writer.w.Write(recordBytes)
	if err != nil {
		return fmt.Errorf("could not write episode %d: %w", record.Episode, err)
	}
	if nWritten != len(recordBytes) {
		return fmt.Errorf("only wrote %d out of %d bytes of episode %d", nWritten, len(recordBytes), record.Episode)
	}
	log.Debugf("Wrote record %s", recordBytes[:len(recordBytes)-1])
	return nil
}

func (writer *Writer) Close() error {
	if writer.closer == nil {
		return nil
	}
	return writer.closer.Close()
}
