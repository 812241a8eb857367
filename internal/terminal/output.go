package terminal

import (
	"encoding/json"
	"sync"
	"time"
)

// Kind tags an output line for rendering.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindInfo
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindInfo:
		return "info"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Line is one rendered output entry. Immutable once appended.
type Line struct {
	Content   string
	Kind      Kind
	Timestamp int64
}

// Log is the ordered, append-only output history of one session. It is
// cleared wholesale by the clear command and never edited in place. Appends
// can come from the dispatcher goroutine and the streaming callback, so
// access is guarded.
type Log struct {
	mu    sync.Mutex
	lines []Line
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(content string, kind Kind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, Line{
		Content:   content,
		Kind:      kind,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}

// Lines returns a snapshot of the log in append order.
func (l *Log) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

// invalidJSONMarker replaces json-kind content that does not parse.
const invalidJSONMarker = "Invalid JSON"

// Render returns the display text for a line. json-kind lines are
// pretty-printed; malformed payloads render the literal invalid marker
// instead of failing.
func Render(line Line) string {
	if line.Kind != KindJSON {
		return line.Content
	}
	var v any
	if err := json.Unmarshal([]byte(line.Content), &v); err != nil {
		return invalidJSONMarker
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return invalidJSONMarker
	}
	return string(pretty)
}
