package record

import "fmt"

type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("could not read log file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// ParseError reports a log line that is not a JSON object with the required keys.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed log line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
