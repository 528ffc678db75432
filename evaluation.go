package godeco

// EvaluationOrder returns the flat order in which the decorator expressions
// of a class are evaluated: strictly top to bottom by document position.
//
// Class decorators come first in declared order, then for each member in
// declared order its own decorators, then each of its parameters' decorators
// in declared order. Members and parameters without decorators contribute
// nothing and do not affect the positions of the others.
func EvaluationOrder(class *ClassNode) []*DecoratorRef {
	order := make([]*DecoratorRef, 0, countDecorators(class))

	order = append(order, class.decorators...)
	for _, member := range class.members {
		order = append(order, member.decorators...)
		for _, param := range member.parameters {
			order = append(order, param.decorators...)
		}
	}

	return order
}

func countDecorators(class *ClassNode) int {
	count := len(class.decorators)
	for _, member := range class.members {
		count += len(member.decorators)
		for _, param := range member.parameters {
			count += len(param.decorators)
		}
	}
	return count
}
