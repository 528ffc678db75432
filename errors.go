package godeco

import "errors"

var (
	// ErrInvalidDecoratorTarget is returned when a decorator list appears on
	// a parameter of a declaration that does not support parameter decorators
	// (plain functions, arrow functions, generators, async functions, object
	// literal methods and setters). It is detected at validation time, before
	// any decorator expression is evaluated.
	ErrInvalidDecoratorTarget = errors.New("parameter decorators are only allowed on class constructors, methods and setters")

	// ErrInvalidDecoratorReturnValue is returned when a decorator returns
	// something other than no replacement or a single-argument transform.
	ErrInvalidDecoratorReturnValue = errors.New("decorator must return no replacement or a transform function")

	// ErrInvalidAddInitializerTiming is returned when AddInitializer is
	// called after the definition pass of its class has completed.
	ErrInvalidAddInitializerTiming = errors.New("addInitializer called outside of the decorator application pass")

	// ErrDecoratorEvaluation is returned when a decorator expression fails.
	// It aborts the remaining evaluation and application steps for the class.
	ErrDecoratorEvaluation = errors.New("decorator expression evaluation failed")

	// ErrDecoratorApplication is returned when an installed transform fails
	// while a decorated member is being invoked. It is propagated to the
	// caller of the member.
	ErrDecoratorApplication = errors.New("decorator transform failed")

	// ErrMetadataFrozen is returned on writes to a class metadata store once
	// the definition pass of its class has completed.
	ErrMetadataFrozen = errors.New("class metadata is frozen after the definition pass")
)
