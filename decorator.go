package godeco

import (
	"fmt"
	"reflect"
	"runtime"
)

type (
	// DecoratorFunc is the callable a decorator expression evaluates to.
	//
	// target is the value being decorated: the underlying function for member
	// and class decorators, and Absent for parameter decorators (parameters
	// have no reified object).
	DecoratorFunc func(target any, ctx *Context) (Result, error)

	// Expr is a decorator expression. It is evaluated exactly once per class
	// definition, in document order, to obtain the callable.
	Expr func() (DecoratorFunc, error)

	// DecoratorRef is a reference to a single decorator occurrence in a
	// declaration tree: an identifier plus the expression producing the
	// callable. Two occurrences of the same identifier are distinct refs.
	DecoratorRef struct {
		id   string
		expr Expr
	}
)

// Absent is the sentinel passed as target to decorators whose target has no
// reified value (parameter decorators).
var Absent = absent{}

type absent struct{}

func (absent) String() string { return "<absent>" }

// NewDecorator creates a decorator reference from an expression.
func NewDecorator(id string, expr Expr) *DecoratorRef {
	return &DecoratorRef{id: id, expr: expr}
}

// Decorates creates a decorator reference whose expression is a constant.
func Decorates(id string, fn DecoratorFunc) *DecoratorRef {
	return &DecoratorRef{
		id: id,
		expr: func() (DecoratorFunc, error) {
			return fn, nil
		},
	}
}

func (d *DecoratorRef) ID() string {
	return d.id
}

func (d *DecoratorRef) String() string {
	return fmt.Sprintf("@%s", d.id)
}

// AsDecorator adapts an arbitrary Go function into a decorator reference,
// using reflection to validate its shape and to map its return values.
//
// Accepted signatures:
//   - func(target any, ctx *godeco.Context) (godeco.Result, error)
//   - func(target any, ctx *godeco.Context) godeco.Result
//   - func(target any, ctx *godeco.Context) (godeco.Transform, error)
//   - func(target any, ctx *godeco.Context) godeco.Transform
//   - func(target any, ctx *godeco.Context)
//
// The ctx parameter may be omitted, as may target. A nil Transform return
// means no replacement. Any other return shape is reported as an invalid
// decorator return value when the decorator is applied.
func AsDecorator(id string, fn any) (*DecoratorRef, error) {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return nil, fmt.Errorf("decorator %s must be a function, got %T", id, fn)
	}
	if t.NumIn() > 2 {
		return nil, fmt.Errorf("decorator %s must take at most (target, ctx), got %d parameters", id, t.NumIn())
	}
	if t.NumIn() == 2 && t.In(1) != ContextType {
		return nil, fmt.Errorf("decorator %s second parameter must be *godeco.Context, got %s", id, t.In(1))
	}
	if t.NumIn() == 2 && t.In(0) != AnyType {
		return nil, fmt.Errorf("decorator %s target parameter must be any, got %s", id, t.In(0))
	}
	if t.NumIn() == 1 && t.In(0) != ContextType && t.In(0) != AnyType {
		return nil, fmt.Errorf("decorator %s single parameter must be any or *godeco.Context, got %s", id, t.In(0))
	}
	if t.NumOut() > 2 {
		return nil, fmt.Errorf("decorator %s must return at most two values, got %d", id, t.NumOut())
	}
	if t.NumOut() == 2 && t.Out(1) != ErrorType {
		return nil, fmt.Errorf("decorator %s second return value must be an error, got %s", id, t.Out(1))
	}

	fnName := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	factory := reflect.ValueOf(fn)

	adapted := func(target any, ctx *Context) (Result, error) {
		in := make([]reflect.Value, 0, 2)
		if t.NumIn() == 1 && t.In(0) == ContextType {
			in = append(in, reflect.ValueOf(ctx))
		} else {
			if t.NumIn() >= 1 {
				in = append(in, reflect.ValueOf(&target).Elem())
			}
			if t.NumIn() == 2 {
				in = append(in, reflect.ValueOf(ctx))
			}
		}

		out, err := callRecovered(factory, in, fnName)
		if err != nil {
			return Result{}, err
		}

		if len(out) == 2 && !out[1].IsNil() {
			return Result{}, out[1].Interface().(error)
		}
		if t.NumOut() == 0 {
			return NoReplacement(), nil
		}

		switch raw := out[0].Interface().(type) {
		case Result:
			return raw, nil
		case Transform:
			if raw == nil {
				return NoReplacement(), nil
			}
			return Replace(raw), nil
		default:
			return Result{}, fmt.Errorf(
				"decorator %s returned %T, expected a godeco.Result or godeco.Transform:\n\t%w",
				id, raw, ErrInvalidDecoratorReturnValue,
			)
		}
	}

	return NewDecorator(id, func() (DecoratorFunc, error) {
		return adapted, nil
	}), nil
}

// MustAsDecorator is like AsDecorator but panics on invalid shapes.
func MustAsDecorator(id string, fn any) *DecoratorRef {
	ref, err := AsDecorator(id, fn)
	if err != nil {
		panic(fmt.Sprintf("failed to adapt decorator %s:\n\t%v", id, err))
	}
	return ref
}
