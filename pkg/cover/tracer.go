package cover

import (
	"fmt"
	"io"
)

// Event identifies why a SearchPosition was traced.
type Event int

const (
	// Improved is traced when a strictly smaller cover replaces the
	// incumbent.
	Improved Event = iota
	// Infeasible is traced when a branch is found to have no cover.
	Infeasible
)

func (e Event) String() string {
	switch e {
	case Improved:
		return "improved"
	case Infeasible:
		return "infeasible"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// SearchPosition describes the search node being traced.
type SearchPosition interface {
	Event() Event
	// Chosen returns the IDs committed on the current branch.
	Chosen() []ID
	// Uncovered returns the elements not yet covered on the current
	// branch.
	Uncovered() []uint
	// Depth returns the number of states waiting on the search stack.
	Depth() int
}

type Tracer interface {
	Trace(p SearchPosition)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ SearchPosition) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p SearchPosition) {
	fmt.Fprintf(t.Writer, "---\nEvent: %s\nDepth: %d\nChosen:\n", p.Event(), p.Depth())
	for _, id := range p.Chosen() {
		fmt.Fprintf(t.Writer, "- %s\n", id)
	}
	fmt.Fprintf(t.Writer, "Uncovered:\n")
	for _, e := range p.Uncovered() {
		fmt.Fprintf(t.Writer, "- %d\n", e)
	}
}

// position adapts a state to SearchPosition.
type position struct {
	event Event
	state *state
	depth int
}

func (p position) Event() Event {
	return p.event
}

func (p position) Chosen() []ID {
	return append([]ID(nil), p.state.chosen...)
}

func (p position) Uncovered() []uint {
	return p.state.uncovered.Slice()
}

func (p position) Depth() int {
	return p.depth
}
