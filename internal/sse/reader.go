package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Event is one dispatched text/event-stream frame.
type Event struct {
	ID    string
	Name  string
	Data  string
	Retry int
}

// Reader splits a text/event-stream body into events. Comment lines
// (": ping") and frames without data are skipped.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next blocks until a complete event is available. It returns io.EOF when
// the stream ends cleanly between frames.
func (r *Reader) Next() (Event, error) {
	var (
		ev        Event
		dataLines []string
		hasData   bool
	)
	for {
		line, err := r.r.ReadString('\n')
		if err != nil {
			if err == io.EOF && line != "" {
				err = io.ErrUnexpectedEOF
			}
			return Event{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if hasData {
				ev.Data = strings.Join(dataLines, "\n")
				return ev, nil
			}
			ev = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.Name = value
		case "data":
			dataLines = append(dataLines, value)
			hasData = true
		case "id":
			ev.ID = value
		case "retry":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				ev.Retry = n
			}
		}
	}
}
