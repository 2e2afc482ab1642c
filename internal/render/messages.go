// Package render owns the orchestrator side of the render pipeline:
// the typed message protocol spoken by the isolated worker process and
// the runner that launches, supervises and times out that process.
//
// The worker writes newline-delimited JSON messages on stdout. Three
// kinds exist: progress updates, a terminal success carrying the output
// location, and a terminal failure carrying a message. The worker
// exiting non-zero without a terminal message is itself a failure.
package render

import (
	"encoding/json"
	"fmt"
)

// Message kinds on the wire.
const (
	kindProgress = "progress"
	kindDone     = "done"
	kindError    = "error"
)

// Message is the closed set of worker-to-orchestrator messages.
type Message interface {
	isMessage()
}

// Progress reports a stage label and fractional completion.
type Progress struct {
	Stage    string
	Fraction float64
}

// Done signals success; the artifact was written to OutputPath.
type Done struct {
	OutputPath string
}

// Failed signals terminal failure with a human-readable message.
type Failed struct {
	Message string
}

func (Progress) isMessage() {}
func (Done) isMessage()     {}
func (Failed) isMessage()   {}

// envelope is the single wire shape; Type selects which fields matter.
type envelope struct {
	Type       string  `json:"type"`
	Stage      string  `json:"stage,omitempty"`
	Progress   float64 `json:"progress,omitempty"`
	OutputPath string  `json:"outputPath,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// Decode parses one NDJSON line into its message variant.
func Decode(line []byte) (Message, error) {
	var e envelope
	if err := json.Unmarshal(line, &e); err != nil {
		return nil, fmt.Errorf("malformed worker message: %w", err)
	}
	switch e.Type {
	case kindProgress:
		return Progress{Stage: e.Stage, Fraction: e.Progress}, nil
	case kindDone:
		return Done{OutputPath: e.OutputPath}, nil
	case kindError:
		return Failed{Message: e.Message}, nil
	default:
		return nil, fmt.Errorf("unknown worker message type %q", e.Type)
	}
}

// Encode serializes a message to one NDJSON line (without newline).
func Encode(m Message) ([]byte, error) {
	var e envelope
	switch v := m.(type) {
	case Progress:
		e = envelope{Type: kindProgress, Stage: v.Stage, Progress: v.Fraction}
	case Done:
		e = envelope{Type: kindDone, OutputPath: v.OutputPath}
	case Failed:
		e = envelope{Type: kindError, Message: v.Message}
	default:
		return nil, fmt.Errorf("unknown message variant %T", m)
	}
	return json.Marshal(e)
}
