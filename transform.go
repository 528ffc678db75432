package godeco

import "fmt"

// Compose chains transforms in application order: the transform installed
// first (innermost decorator) runs first, feeding its output into the next.
// Composing an empty list yields nil, meaning the argument passes through
// untouched.
func Compose(transforms []Transform) Transform {
	switch len(transforms) {
	case 0:
		return nil
	case 1:
		return transforms[0]
	}

	chain := make([]Transform, len(transforms))
	copy(chain, transforms)

	return func(value any) (any, error) {
		var err error
		for i, transform := range chain {
			value, err = transform(value)
			if err != nil {
				return nil, fmt.Errorf("transform %d of %d failed:\n\t%w", i, len(chain), err)
			}
		}
		return value, nil
	}
}
