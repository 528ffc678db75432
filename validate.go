package godeco

import (
	"errors"
	"fmt"

	"github.com/a-peyrard/godeco/set"
)

type (
	check interface {
		run(class *ClassNode) error

		fmt.Stringer
	}

	checkSingleConstructor struct{}

	checkRestParameterLast struct{}

	checkParameterIndexes struct{}

	checkMemberNames struct{}
)

var classChecks = []check{
	checkSingleConstructor{},
	checkRestParameterLast{},
	checkParameterIndexes{},
	checkMemberNames{},
}

func validateClass(class *ClassNode) error {
	var errs []error
	for _, c := range classChecks {
		if err := c.run(class); err != nil {
			errs = append(errs, fmt.Errorf("%s:\n\t%w", c, err))
		}
	}
	return errors.Join(errs...)
}

func (c checkSingleConstructor) run(class *ClassNode) error {
	count := 0
	for _, member := range class.members {
		if member.kind == KindConstructor {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("class %s declares %d constructors", class.name, count)
	}
	return nil
}

func (c checkSingleConstructor) String() string {
	return "<single constructor>"
}

func (c checkRestParameterLast) run(class *ClassNode) error {
	for _, member := range class.members {
		for i, param := range member.parameters {
			if param.rest && i != len(member.parameters)-1 {
				return fmt.Errorf(
					"rest parameter %s of %s must be the last parameter, found at position %d of %d",
					param.name, member, i, len(member.parameters),
				)
			}
		}
	}
	return nil
}

func (c checkRestParameterLast) String() string {
	return "<rest parameter last>"
}

func (c checkParameterIndexes) run(class *ClassNode) error {
	for _, member := range class.members {
		for i, param := range member.parameters {
			if param.index != i {
				return fmt.Errorf(
					"parameter %s of %s has index %d, expected %d",
					param.name, member, param.index, i,
				)
			}
		}
	}
	return nil
}

func (c checkParameterIndexes) String() string {
	return "<contiguous parameter indexes>"
}

func (c checkMemberNames) run(class *ClassNode) error {
	seen := set.New[string]()
	for _, member := range class.members {
		if member.kind == KindConstructor {
			continue
		}
		key := fmt.Sprintf("%s/%s", member.kind, member.name)
		if seen.Contains(key) {
			return fmt.Errorf("duplicate member %s in class %s", member, class.name)
		}
		seen.Add(key)
	}
	return nil
}

func (c checkMemberNames) String() string {
	return "<unique member names>"
}
