package godeco

import (
	"fmt"
	"reflect"

	"github.com/a-peyrard/godeco/option"
	"github.com/rs/zerolog"
)

type (
	// Engine turns a declaration tree into a defined class: it evaluates
	// every decorator expression once in document order, applies the results
	// bottom-up, installs composed parameter transforms, and runs the static
	// initializers. One definition pass is synchronous and atomic: the first
	// failure aborts the remaining steps for that class.
	Engine struct {
		logger zerolog.Logger
	}

	EngineOptions struct {
		logger zerolog.Logger
	}
)

func WithLogger(logger zerolog.Logger) option.Option[EngineOptions] {
	return func(opts *EngineOptions) {
		opts.logger = logger
	}
}

func NewEngine(opts ...option.Option[EngineOptions]) *Engine {
	options := option.Build(
		&EngineOptions{logger: zerolog.Nop()},
		opts...,
	)

	return &Engine{logger: options.logger}
}

// Define runs the full definition pass for a class with no parent.
func (e *Engine) Define(class *ClassNode) (*DefinedClass, error) {
	return e.define(class, nil)
}

func (e *Engine) define(class *ClassNode, parent *DefinedClass) (*DefinedClass, error) {
	logger := e.logger.With().Str("class", class.name).Logger()

	pass := newDefinitionPass()
	metadata := newMetadata()

	evaluated, err := e.evaluate(class, &logger)
	if err != nil {
		return nil, err
	}

	defined, err := newDefinedClass(class, parent, metadata)
	if err != nil {
		return nil, err
	}

	if err = e.apply(class, defined, evaluated, metadata, pass, &logger); err != nil {
		return nil, err
	}

	pass.close()
	metadata.freeze()
	defined.instanceInitializers = pass.instanceInitializers

	if err = runInitializers(pass.staticInitializers, "static"); err != nil {
		return nil, fmt.Errorf("failed to initialize class %s:\n\t%w", class.name, err)
	}

	return defined, nil
}

// evaluate computes every decorator expression of the class, once, in
// document order. The first failure aborts the remaining evaluations.
func (e *Engine) evaluate(class *ClassNode, logger *zerolog.Logger) (map[*DecoratorRef]DecoratorFunc, error) {
	order := EvaluationOrder(class)
	evaluated := make(map[*DecoratorRef]DecoratorFunc, len(order))

	for _, ref := range order {
		logger.Debug().Str("decorator", ref.id).Msg("Evaluating decorator expression")

		fn, err := evaluateExpr(ref)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to evaluate decorator %s on class %s:\n\t%w",
				ref, class.name, err,
			)
		}
		evaluated[ref] = fn
	}

	return evaluated, nil
}

func evaluateExpr(ref *DecoratorRef) (fn DecoratorFunc, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic evaluating %s: %v:\n\t%w", ref, r, ErrDecoratorEvaluation)
		}
	}()

	fn, err = ref.expr()
	if err != nil {
		return nil, fmt.Errorf("%v:\n\t%w", err, ErrDecoratorEvaluation)
	}
	if fn == nil {
		return nil, fmt.Errorf("expression of %s produced a nil callable:\n\t%w", ref, ErrDecoratorEvaluation)
	}
	return fn, nil
}

// apply runs the application steps bottom-up and installs the outcomes on
// the defined class: composed transforms for parameters, replacement
// functions for members and for the constructor via class decorators.
func (e *Engine) apply(
	class *ClassNode,
	defined *DefinedClass,
	evaluated map[*DecoratorRef]DecoratorFunc,
	metadata *Metadata,
	pass *definitionPass,
	logger *zerolog.Logger,
) error {
	type paramTarget struct {
		member *MemberNode
		param  *ParameterNode
	}
	var (
		pending      = make(map[paramTarget][]Transform)
		pendingOrder []paramTarget
	)

	for _, step := range ApplicationOrder(class) {
		logger.Debug().
			Str("decorator", step.Decorator.id).
			Stringer("target", step.Target).
			Msg("Applying decorator")

		ctx := contextFor(class, step, metadata, pass)
		result, err := applyDecorator(evaluated[step.Decorator], e.targetValue(defined, step), ctx, step)
		if err != nil {
			return fmt.Errorf("failed to define class %s:\n\t%w", class.name, err)
		}
		if !result.Replaced() {
			continue
		}
		if result.Transform() == nil {
			return fmt.Errorf(
				"decorator %s on %s returned a nil replacement:\n\t%w",
				step.Decorator, step.Target, ErrInvalidDecoratorReturnValue,
			)
		}

		switch step.Target.Kind {
		case TargetParameter:
			key := paramTarget{member: step.Target.Member, param: step.Target.Parameter}
			if _, seen := pending[key]; !seen {
				pendingOrder = append(pendingOrder, key)
			}
			pending[key] = append(pending[key], result.Transform())

		case TargetMember:
			if err = defined.replaceImpl(step.Target.Member, result.Transform(), step.Decorator); err != nil {
				return err
			}

		case TargetClass:
			if err = defined.replaceConstructor(result.Transform(), step.Decorator); err != nil {
				return err
			}
		}
	}

	for _, key := range pendingOrder {
		defined.installTransform(key.member, key.param.index, Compose(pending[key]))
	}

	return nil
}

func (e *Engine) targetValue(defined *DefinedClass, step ApplicationStep) any {
	switch step.Target.Kind {
	case TargetMember:
		return defined.currentImpl(step.Target.Member)
	case TargetClass:
		return defined.currentConstructor()
	default:
		return Absent
	}
}

func applyDecorator(fn DecoratorFunc, target any, ctx *Context, step ApplicationStep) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic applying decorator %s to %s: %v:\n\t%w", step.Decorator, step.Target, r, ErrDecoratorApplication)
		}
	}()

	result, err = fn(target, ctx)
	if err != nil {
		return Result{}, fmt.Errorf("decorator %s failed on %s: %v:\n\t%w", step.Decorator, step.Target, err, ErrDecoratorApplication)
	}
	return result, nil
}

func callRecovered(factory reflect.Value, in []reflect.Value, name string) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("panic calling %s: %v", name, r)
		}
	}()

	return factory.Call(in), nil
}
