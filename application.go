package godeco

import "fmt"

type (
	// TargetKind discriminates the target of an application step.
	TargetKind int

	// TargetRef points at the declaration a decorator result is applied to.
	// Member is nil for class targets; Parameter is non-nil only for
	// parameter targets.
	TargetRef struct {
		Kind      TargetKind
		Member    *MemberNode
		Parameter *ParameterNode
	}

	// ApplicationStep is one application of an evaluated decorator to its
	// target. Index is the step's position within the reverse-declared
	// sequence of its own target (0 = innermost, applied first).
	ApplicationStep struct {
		Target    TargetRef
		Decorator *DecoratorRef
		Index     int
	}
)

const (
	TargetClass TargetKind = iota
	TargetMember
	TargetParameter
)

func (k TargetKind) String() string {
	switch k {
	case TargetClass:
		return "class"
	case TargetMember:
		return "member"
	case TargetParameter:
		return "parameter"
	}
	return "unknown"
}

func (t TargetRef) String() string {
	switch t.Kind {
	case TargetParameter:
		return fmt.Sprintf("parameter %d of %s", t.Parameter.index, t.Member)
	case TargetMember:
		return t.Member.String()
	default:
		return "class"
	}
}

// ApplicationOrder returns the order in which evaluated decorator results
// are applied to their targets: bottom-up, innermost first.
//
// For each member in declared order, each of its parameters in declared
// order has its decorators applied in reverse declared order; then the
// member's own decorators are applied in reverse declared order. Once every
// member is fully processed, the class decorators are applied in reverse
// declared order. A parameter's decorators therefore always complete before
// its member's, and a member's before the class's.
//
// The order is a pure function of the tree: deriving it twice from the same
// tree yields the same sequence.
func ApplicationOrder(class *ClassNode) []ApplicationStep {
	steps := make([]ApplicationStep, 0, countDecorators(class))

	for _, member := range class.members {
		for _, param := range member.parameters {
			steps = appendReversed(steps, TargetRef{
				Kind:      TargetParameter,
				Member:    member,
				Parameter: param,
			}, param.decorators)
		}
		steps = appendReversed(steps, TargetRef{
			Kind:   TargetMember,
			Member: member,
		}, member.decorators)
	}

	return appendReversed(steps, TargetRef{Kind: TargetClass}, class.decorators)
}

func appendReversed(steps []ApplicationStep, target TargetRef, decorators []*DecoratorRef) []ApplicationStep {
	for i := len(decorators) - 1; i >= 0; i-- {
		steps = append(steps, ApplicationStep{
			Target:    target,
			Decorator: decorators[i],
			Index:     len(decorators) - 1 - i,
		})
	}
	return steps
}
