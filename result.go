package godeco

type (
	// Transform is the single-argument replacement function a decorator may
	// return. For parameter decorators it maps the caller-supplied argument
	// to the value the parameter binding receives; for member and class
	// decorators it maps the underlying function to its replacement.
	Transform func(value any) (any, error)

	// Result is the tagged outcome of applying a decorator: either no
	// replacement, or a replacement transform. The zero value means no
	// replacement.
	Result struct {
		replaced  bool
		transform Transform
	}
)

// NoReplacement is the result of a decorator that keeps its target as is.
func NoReplacement() Result {
	return Result{}
}

// Replace wraps a transform into a replacement result.
func Replace(transform Transform) Result {
	return Result{replaced: true, transform: transform}
}

func (r Result) Replaced() bool {
	return r.replaced
}

func (r Result) Transform() Transform {
	return r.transform
}

func (r Result) String() string {
	if r.replaced {
		return "<replacement>"
	}
	return "<no replacement>"
}
