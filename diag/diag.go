package diag

import "fmt"

// Severity of a diagnostic
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Diagnostic is one message emitted while compiling a form
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Sink receives diagnostics as they are produced. Calls must not block.
type Sink interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Log collects diagnostics in emission order.
type Log struct {
	Entries []Diagnostic
}

func (l *Log) Info(msg string)    { l.add(Info, msg) }
func (l *Log) Warning(msg string) { l.add(Warning, msg) }
func (l *Log) Error(msg string)   { l.add(Error, msg) }

func (l *Log) add(s Severity, msg string) {
	l.Entries = append(l.Entries, Diagnostic{Severity: s, Message: msg})
}

// Count returns the number of entries with the given severity.
func (l *Log) Count(s Severity) int {
	n := 0
	for _, d := range l.Entries {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Filter returns the entries with the given severity.
func (l *Log) Filter(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.Entries {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

type tee []Sink

// Tee forwards every diagnostic to all non-nil sinks in order.
func Tee(sinks ...Sink) Sink {
	var t tee
	for _, s := range sinks {
		if s != nil {
			t = append(t, s)
		}
	}
	return t
}

func (t tee) Info(msg string) {
	for _, s := range t {
		s.Info(msg)
	}
}

func (t tee) Warning(msg string) {
	for _, s := range t {
		s.Warning(msg)
	}
}

func (t tee) Error(msg string) {
	for _, s := range t {
		s.Error(msg)
	}
}

type discard struct{}

func (discard) Info(string)    {}
func (discard) Warning(string) {}
func (discard) Error(string)   {}

// Discard drops every diagnostic.
var Discard Sink = discard{}

// Once emits an info message only the first time a key is seen.
type Once struct {
	Sink Sink
	seen map[string]bool
}

func (o *Once) Info(key, msg string) {
	if o.seen == nil {
		o.seen = make(map[string]bool)
	}
	if o.seen[key] {
		return
	}
	o.seen[key] = true
	o.Sink.Info(msg)
}
