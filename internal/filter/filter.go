package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mrzor/tunnel-log-combiner/internal/correlate"
)

// Filter holds a compiled event selection expression.
type Filter struct {
	program *vm.Program
	rawExpr string
}

// New compiles exprStr. An empty expression selects every event.
func New(exprStr string) (*Filter, error) {
	if exprStr == "" {
		return &Filter{}, nil
	}

	// Environment for expression type checking
	exprEnv := map[string]interface{}{
		"kind":   "",
		"packet": 0,
		"ts":     0,
		"size":   0,
		"delta":  0,
	}

	program, err := expr.Compile(exprStr, expr.Env(exprEnv), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{
		program: program,
		rawExpr: exprStr,
	}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.rawExpr
}

// Match reports whether ev is selected.
func (f *Filter) Match(ev correlate.Event) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	env := map[string]interface{}{
		"kind":   ev.Kind.String(),
		"packet": int(ev.PacketID),
		"ts":     int(ev.Timestamp),
		"size":   int(ev.Size),
		"delta":  int(ev.Delta),
	}

	output, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter for packet %d: %w", ev.PacketID, err)
	}

	keep, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T, want bool", output)
	}
	return keep, nil
}

// Apply returns the selected events in their original order.
func (f *Filter) Apply(events []correlate.Event) ([]correlate.Event, error) {
	if f.program == nil {
		return events, nil
	}

	kept := make([]correlate.Event, 0, len(events))
	for _, ev := range events {
		keep, err := f.Match(ev)
		if err != nil {
			return nil, err
		}
		if keep {
			kept = append(kept, ev)
		}
	}
	return kept, nil
}

// ApplyPackets selects whole packets: every event of a packet is kept, in
// its original order, when at least one of them matches.
func (f *Filter) ApplyPackets(events []correlate.Event) ([]correlate.Event, error) {
	if f.program == nil {
		return events, nil
	}

	selected := make(map[int64]bool)
	for _, ev := range events {
		if selected[ev.PacketID] {
			continue
		}
		keep, err := f.Match(ev)
		if err != nil {
			return nil, err
		}
		if keep {
			selected[ev.PacketID] = true
		}
	}

	kept := make([]correlate.Event, 0, len(events))
	for _, ev := range events {
		if selected[ev.PacketID] {
			kept = append(kept, ev)
		}
	}
	return kept, nil
}
