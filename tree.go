package godeco

import (
	"fmt"

	"github.com/a-peyrard/godeco/option"
)

type (
	// MemberKind discriminates the members a class declaration can hold.
	MemberKind int

	// FunctionKind discriminates declarations that are not class members.
	// Parameters of such declarations cannot be decorated.
	FunctionKind int

	// ClassNode is the root of a declaration tree: one class, its decorators
	// in declared order, and its members in declared order. The tree is
	// immutable once built.
	ClassNode struct {
		name       string
		extends    string
		decorators []*DecoratorRef
		members    []*MemberNode
	}

	// MemberNode is a constructor, method or setter of a class, with its
	// decorators, its parameters in declared order, and the underlying Go
	// function implementing it.
	MemberNode struct {
		kind       MemberKind
		name       string
		private    bool
		decorators []*DecoratorRef
		parameters []*ParameterNode
		impl       any
	}

	// ParameterNode is one formal parameter of a member. Its index is its
	// 0-based ordinal position, stable even with defaults or destructuring.
	ParameterNode struct {
		index      int
		name       string
		pattern    bool
		rest       bool
		decorators []*DecoratorRef
	}

	// FunctionNode is a declaration outside of any class body. It only
	// exists so that decorated parameters in such positions can be rejected.
	FunctionNode struct {
		kind       FunctionKind
		name       string
		parameters []*ParameterNode
	}

	ClassOptions struct {
		extends    string
		decorators []*DecoratorRef
		members    []*MemberNode
	}

	MemberOptions struct {
		private    bool
		decorators []*DecoratorRef
		parameters []*ParameterNode
	}

	ParameterOptions struct {
		pattern    bool
		rest       bool
		decorators []*DecoratorRef
	}
)

const (
	KindConstructor MemberKind = iota
	KindMethod
	KindSetter
	KindStaticMethod
	KindStaticSetter
)

const (
	PlainFunction FunctionKind = iota
	ArrowFunction
	GeneratorFunction
	AsyncFunction
	ObjectLiteralMethod
	ObjectLiteralSetter
)

func (k MemberKind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindMethod:
		return "method"
	case KindSetter:
		return "setter"
	case KindStaticMethod:
		return "static-method"
	case KindStaticSetter:
		return "static-setter"
	}
	return "unknown"
}

func (k MemberKind) Static() bool {
	return k == KindStaticMethod || k == KindStaticSetter
}

func (k FunctionKind) String() string {
	switch k {
	case PlainFunction:
		return "function"
	case ArrowFunction:
		return "arrow-function"
	case GeneratorFunction:
		return "generator"
	case AsyncFunction:
		return "async-function"
	case ObjectLiteralMethod:
		return "object-method"
	case ObjectLiteralSetter:
		return "object-setter"
	}
	return "unknown"
}

func Extends(parent string) option.Option[ClassOptions] {
	return func(opts *ClassOptions) {
		opts.extends = parent
	}
}

func DecoratedBy(decorators ...*DecoratorRef) option.Option[ClassOptions] {
	return func(opts *ClassOptions) {
		opts.decorators = append(opts.decorators, decorators...)
	}
}

func Members(members ...*MemberNode) option.Option[ClassOptions] {
	return func(opts *ClassOptions) {
		opts.members = append(opts.members, members...)
	}
}

func MemberDecoratedBy(decorators ...*DecoratorRef) option.Option[MemberOptions] {
	return func(opts *MemberOptions) {
		opts.decorators = append(opts.decorators, decorators...)
	}
}

func Private() option.Option[MemberOptions] {
	return func(opts *MemberOptions) {
		opts.private = true
	}
}

func Params(parameters ...*ParameterNode) option.Option[MemberOptions] {
	return func(opts *MemberOptions) {
		opts.parameters = append(opts.parameters, parameters...)
	}
}

func ParamDecoratedBy(decorators ...*DecoratorRef) option.Option[ParameterOptions] {
	return func(opts *ParameterOptions) {
		opts.decorators = append(opts.decorators, decorators...)
	}
}

// Rest marks the parameter as a rest (variadic) parameter. It must be the
// last parameter of its member.
func Rest() option.Option[ParameterOptions] {
	return func(opts *ParameterOptions) {
		opts.rest = true
	}
}

// Pattern marks the parameter as a destructuring pattern: it has no name,
// and parameter decorators observe an absent name in their context.
func Pattern() option.Option[ParameterOptions] {
	return func(opts *ParameterOptions) {
		opts.pattern = true
	}
}

// NewClass builds and validates a class declaration tree. Parameter ordinal
// indexes are assigned from declaration position.
func NewClass(name string, opts ...option.Option[ClassOptions]) (*ClassNode, error) {
	options := option.Build(&ClassOptions{}, opts...)

	class := &ClassNode{
		name:       name,
		extends:    options.extends,
		decorators: options.decorators,
		members:    options.members,
	}
	if err := validateClass(class); err != nil {
		return nil, fmt.Errorf("invalid declaration for class %s:\n\t%w", name, err)
	}

	return class, nil
}

// MustNewClass is like NewClass but panics on invalid declarations.
func MustNewClass(name string, opts ...option.Option[ClassOptions]) *ClassNode {
	class, err := NewClass(name, opts...)
	if err != nil {
		panic(err.Error())
	}
	return class
}

// NewConstructor builds the constructor member. impl is the Go function
// invoked when the class is constructed.
func NewConstructor(impl any, opts ...option.Option[MemberOptions]) *MemberNode {
	return newMember(KindConstructor, "", impl, opts...)
}

func NewMethod(name string, impl any, opts ...option.Option[MemberOptions]) *MemberNode {
	return newMember(KindMethod, name, impl, opts...)
}

func NewSetter(name string, impl any, opts ...option.Option[MemberOptions]) *MemberNode {
	return newMember(KindSetter, name, impl, opts...)
}

func NewStaticMethod(name string, impl any, opts ...option.Option[MemberOptions]) *MemberNode {
	return newMember(KindStaticMethod, name, impl, opts...)
}

func NewStaticSetter(name string, impl any, opts ...option.Option[MemberOptions]) *MemberNode {
	return newMember(KindStaticSetter, name, impl, opts...)
}

func newMember(kind MemberKind, name string, impl any, opts ...option.Option[MemberOptions]) *MemberNode {
	options := option.Build(&MemberOptions{}, opts...)

	for i, param := range options.parameters {
		param.index = i
	}

	return &MemberNode{
		kind:       kind,
		name:       name,
		private:    options.private,
		decorators: options.decorators,
		parameters: options.parameters,
		impl:       impl,
	}
}

// NewParam builds a parameter node. Its ordinal index is assigned by the
// member it is attached to.
func NewParam(name string, opts ...option.Option[ParameterOptions]) *ParameterNode {
	options := option.Build(&ParameterOptions{}, opts...)

	param := &ParameterNode{
		name:       name,
		pattern:    options.pattern,
		rest:       options.rest,
		decorators: options.decorators,
	}
	if param.pattern {
		param.name = ""
	}
	return param
}

// NewFunction builds a non-class declaration. Decorated parameters on such
// declarations are rejected by Validate.
func NewFunction(kind FunctionKind, name string, parameters ...*ParameterNode) *FunctionNode {
	for i, param := range parameters {
		param.index = i
	}
	return &FunctionNode{
		kind:       kind,
		name:       name,
		parameters: parameters,
	}
}

func (c *ClassNode) Name() string              { return c.name }
func (c *ClassNode) ParentName() string        { return c.extends }
func (c *ClassNode) Decorators() []*DecoratorRef { return c.decorators }
func (c *ClassNode) Members() []*MemberNode    { return c.members }

func (m *MemberNode) Kind() MemberKind           { return m.kind }
func (m *MemberNode) Name() string               { return m.name }
func (m *MemberNode) Private() bool              { return m.private }
func (m *MemberNode) Decorators() []*DecoratorRef { return m.decorators }
func (m *MemberNode) Parameters() []*ParameterNode { return m.parameters }

func (m *MemberNode) String() string {
	if m.kind == KindConstructor {
		return "constructor"
	}
	return fmt.Sprintf("%s %s", m.kind, m.name)
}

func (p *ParameterNode) Index() int                 { return p.index }
func (p *ParameterNode) Name() string               { return p.name }
func (p *ParameterNode) Pattern() bool              { return p.pattern }
func (p *ParameterNode) Rest() bool                 { return p.rest }
func (p *ParameterNode) Decorators() []*DecoratorRef { return p.decorators }

func (f *FunctionNode) Kind() FunctionKind { return f.kind }
func (f *FunctionNode) Name() string       { return f.name }

// Validate rejects decorated parameters on declarations that do not admit
// them. The check runs before any decorator expression is evaluated.
func (f *FunctionNode) Validate() error {
	for _, param := range f.parameters {
		if len(param.decorators) > 0 {
			return fmt.Errorf(
				"parameter %d of %s %s is decorated:\n\t%w",
				param.index, f.kind, f.name, ErrInvalidDecoratorTarget,
			)
		}
	}
	return nil
}
