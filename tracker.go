package godeco

import (
	"fmt"
	"strings"

	"github.com/a-peyrard/godeco/set"
)

// heritageTracker records the chain of classes currently being defined, so
// that cyclic extends clauses are reported instead of recursing forever.
type heritageTracker struct {
	visited set.Set[string]
	stack   []string
}

func newHeritageTracker() *heritageTracker {
	return &heritageTracker{
		visited: set.New[string](),
		stack:   make([]string, 0),
	}
}

func (tracker *heritageTracker) Push(class string) error {
	if tracker.visited.Contains(class) {
		cycle := []string{class}
		for i := len(tracker.stack) - 1; i >= 0; i-- {
			cycle = append(cycle, tracker.stack[i])
			if tracker.stack[i] == class {
				break
			}
		}

		return fmt.Errorf("heritage cycle found:\n%s", formatCycle(cycle))
	}
	tracker.visited.Add(class)
	tracker.stack = append(tracker.stack, class)

	return nil
}

func (tracker *heritageTracker) Pop() string {
	if len(tracker.stack) == 0 {
		panic("heritage tracker: pop from empty stack")
	}
	class := tracker.stack[len(tracker.stack)-1]
	tracker.stack = tracker.stack[:len(tracker.stack)-1]
	tracker.visited.Remove(class)

	return class
}

func formatCycle(cycle []string) string {
	var b strings.Builder
	for i := len(cycle) - 1; i >= 0; i-- {
		b.WriteString(strings.Repeat("\t", len(cycle)-1-i))
		if i != len(cycle)-1 {
			b.WriteString(" extends ")
		}
		b.WriteString(cycle[i])
		b.WriteString("\n")
	}
	return b.String()
}
