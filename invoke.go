package godeco

import (
	"fmt"
	"reflect"
)

type (
	// DefinedClass is the product of one definition pass: the declaration
	// tree, its frozen metadata, the member implementations after decorator
	// replacement, and one composed transform per decorated parameter.
	DefinedClass struct {
		node     *ClassNode
		parent   *DefinedClass
		metadata *Metadata

		members              map[memberKey]*definedMember
		instanceInitializers []Initializer
	}

	memberKey struct {
		name string
		kind MemberKind
	}

	definedMember struct {
		node       *MemberNode
		impl       reflect.Value
		transforms map[int]Transform
	}
)

func newDefinedClass(class *ClassNode, parent *DefinedClass, metadata *Metadata) (*DefinedClass, error) {
	defined := &DefinedClass{
		node:     class,
		parent:   parent,
		metadata: metadata,
		members:  make(map[memberKey]*definedMember, len(class.members)),
	}

	for _, member := range class.members {
		impl := reflect.ValueOf(member.impl)
		if member.impl != nil && impl.Kind() != reflect.Func {
			return nil, fmt.Errorf(
				"implementation of %s in class %s must be a function, got %T",
				member, class.name, member.impl,
			)
		}
		defined.members[memberKey{name: member.name, kind: member.kind}] = &definedMember{
			node:       member,
			impl:       impl,
			transforms: make(map[int]Transform),
		}
	}

	return defined, nil
}

func (c *DefinedClass) Name() string {
	return c.node.name
}

func (c *DefinedClass) Parent() *DefinedClass {
	return c.parent
}

// Metadata returns the class-scoped metadata store, frozen once the
// definition pass has completed.
func (c *DefinedClass) Metadata() *Metadata {
	return c.metadata
}

// Construct runs the instance initializers in registration order, then
// invokes the constructor (own or inherited) through its composed parameter
// transforms. Classes without a constructor yield nil.
func (c *DefinedClass) Construct(args ...any) (any, error) {
	if err := runInitializers(c.instanceInitializers, "instance"); err != nil {
		return nil, fmt.Errorf("failed to construct instance of %s:\n\t%w", c.node.name, err)
	}

	member := c.lookup(memberKey{kind: KindConstructor})
	if member == nil {
		return nil, nil
	}
	outs, err := c.invoke(member, args)
	if err != nil {
		return nil, fmt.Errorf("failed to construct instance of %s:\n\t%w", c.node.name, err)
	}
	if len(outs) == 0 {
		return nil, nil
	}
	return outs[0], nil
}

// Call invokes an instance method through its composed parameter transforms.
func (c *DefinedClass) Call(name string, args ...any) ([]any, error) {
	return c.call(memberKey{name: name, kind: KindMethod}, args)
}

// CallStatic invokes a static method through its composed parameter transforms.
func (c *DefinedClass) CallStatic(name string, args ...any) ([]any, error) {
	return c.call(memberKey{name: name, kind: KindStaticMethod}, args)
}

// Set invokes an instance setter with a single value.
func (c *DefinedClass) Set(name string, value any) error {
	_, err := c.call(memberKey{name: name, kind: KindSetter}, []any{value})
	return err
}

// SetStatic invokes a static setter with a single value.
func (c *DefinedClass) SetStatic(name string, value any) error {
	_, err := c.call(memberKey{name: name, kind: KindStaticSetter}, []any{value})
	return err
}

func (c *DefinedClass) call(key memberKey, args []any) ([]any, error) {
	member := c.lookup(key)
	if member == nil {
		return nil, fmt.Errorf("class %s has no %s %s", c.node.name, key.kind, key.name)
	}
	outs, err := c.invoke(member, args)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on class %s:\n\t%w", member.node, c.node.name, err)
	}
	return outs, nil
}

// lookup walks the heritage chain, closest class first.
func (c *DefinedClass) lookup(key memberKey) *definedMember {
	if member, found := c.members[key]; found {
		return member
	}
	if c.parent != nil {
		return c.parent.lookup(key)
	}
	return nil
}

// invoke routes arguments through the member's composed transforms, then
// calls the underlying implementation. A rest parameter's transform receives
// the collected variadic arguments as a []any.
func (c *DefinedClass) invoke(member *definedMember, args []any) ([]any, error) {
	args, err := member.transformArgs(args)
	if err != nil {
		return nil, err
	}

	if !member.impl.IsValid() || member.impl.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s has no implementation", member.node)
	}

	in, err := member.reflectArgs(args)
	if err != nil {
		return nil, err
	}
	outs, err := callRecovered(member.impl, in, member.node.String())
	if err != nil {
		return nil, err
	}

	results := make([]any, 0, len(outs))
	for i, out := range outs {
		if i == len(outs)-1 && out.Type() == ErrorType {
			if !out.IsNil() {
				return nil, out.Interface().(error)
			}
			continue
		}
		results = append(results, out.Interface())
	}
	return results, nil
}

func (m *definedMember) transformArgs(args []any) ([]any, error) {
	if len(m.transforms) == 0 {
		return args, nil
	}

	transformed := make([]any, len(args))
	copy(transformed, args)

	for _, param := range m.node.parameters {
		transform, found := m.transforms[param.index]
		if !found {
			continue
		}

		if param.rest {
			if param.index > len(transformed) {
				continue
			}
			rest := append([]any{}, transformed[param.index:]...)
			replaced, err := applyTransform(transform, rest, m.node, param)
			if err != nil {
				return nil, err
			}
			restArgs, ok := replaced.([]any)
			if !ok {
				return nil, fmt.Errorf(
					"transform of rest parameter %d of %s returned %T, expected []any:\n\t%w",
					param.index, m.node, replaced, ErrDecoratorApplication,
				)
			}
			transformed = append(transformed[:param.index], restArgs...)
			continue
		}

		if param.index >= len(transformed) {
			// argument not supplied, nothing to transform
			continue
		}
		replaced, err := applyTransform(transform, transformed[param.index], m.node, param)
		if err != nil {
			return nil, err
		}
		transformed[param.index] = replaced
	}

	return transformed, nil
}

func (m *definedMember) reflectArgs(args []any) ([]reflect.Value, error) {
	t := m.impl.Type()

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		switch {
		case t.IsVariadic() && i >= t.NumIn()-1:
			paramType = t.In(t.NumIn() - 1).Elem()
		case i < t.NumIn():
			paramType = t.In(i)
		default:
			return nil, fmt.Errorf("%s takes %d arguments, got %d", m.node, t.NumIn(), len(args))
		}

		if arg == nil {
			in[i] = reflect.Zero(paramType)
			continue
		}
		value := reflect.ValueOf(arg)
		if !value.Type().AssignableTo(paramType) {
			return nil, fmt.Errorf(
				"argument %d of %s is %T, expected %s", i, m.node, arg, paramType,
			)
		}
		in[i] = value
	}

	return in, nil
}

func applyTransform(transform Transform, value any, member *MemberNode, param *ParameterNode) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf(
				"panic in transform of parameter %d of %s: %v:\n\t%w",
				param.index, member, r, ErrDecoratorApplication,
			)
		}
	}()

	out, err = transform(value)
	if err != nil {
		return nil, fmt.Errorf(
			"transform of parameter %d of %s failed:\n\t%w",
			param.index, member, fmt.Errorf("%v:\n\t%w", err, ErrDecoratorApplication),
		)
	}
	return out, nil
}

func (c *DefinedClass) currentImpl(member *MemberNode) any {
	defined := c.members[memberKey{name: member.name, kind: member.kind}]
	if defined == nil || !defined.impl.IsValid() {
		return Absent
	}
	return defined.impl.Interface()
}

func (c *DefinedClass) currentConstructor() any {
	ctor := c.members[memberKey{kind: KindConstructor}]
	if ctor == nil || !ctor.impl.IsValid() {
		return Absent
	}
	return ctor.impl.Interface()
}

// replaceImpl swaps a member implementation for the one produced by a member
// decorator's transform. The replacement must be a function assignable to
// the original implementation type.
func (c *DefinedClass) replaceImpl(member *MemberNode, transform Transform, ref *DecoratorRef) error {
	defined := c.members[memberKey{name: member.name, kind: member.kind}]

	replaced, err := transform(c.currentImpl(member))
	if err != nil {
		return fmt.Errorf("decorator %s failed to replace %s:\n\t%w", ref, member, err)
	}
	return defined.swap(replaced, ref)
}

func (c *DefinedClass) replaceConstructor(transform Transform, ref *DecoratorRef) error {
	ctor := c.members[memberKey{kind: KindConstructor}]

	replaced, err := transform(c.currentConstructor())
	if err != nil {
		return fmt.Errorf("decorator %s failed to replace constructor of %s:\n\t%w", ref, c.node.name, err)
	}
	if ctor == nil {
		// class decorators may observe an absent constructor, but there is
		// nothing to install a replacement on
		if _, isAbsent := replaced.(absent); isAbsent || replaced == nil {
			return nil
		}
		return fmt.Errorf(
			"decorator %s returned a constructor replacement but class %s has no constructor:\n\t%w",
			ref, c.node.name, ErrInvalidDecoratorReturnValue,
		)
	}
	return ctor.swap(replaced, ref)
}

func (m *definedMember) swap(replaced any, ref *DecoratorRef) error {
	value := reflect.ValueOf(replaced)
	if !value.IsValid() || value.Kind() != reflect.Func || !value.Type().AssignableTo(m.impl.Type()) {
		return fmt.Errorf(
			"decorator %s replaced %s with %T, expected a %s:\n\t%w",
			ref, m.node, replaced, m.impl.Type(), ErrInvalidDecoratorReturnValue,
		)
	}
	m.impl = value
	return nil
}

func (c *DefinedClass) installTransform(member *MemberNode, index int, transform Transform) {
	if transform == nil {
		return
	}
	defined := c.members[memberKey{name: member.name, kind: member.kind}]
	defined.transforms[index] = transform
}
