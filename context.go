package godeco

import "fmt"

type (
	// FunctionInfo describes the member owning a decorated parameter. Kind
	// is "class-constructor", "method" or "setter"; staticness is carried by
	// the Static flag, not the kind.
	FunctionInfo struct {
		Kind    string
		Name    string
		Static  bool
		Private bool
	}

	// Context is the record handed to every decorator when it is applied.
	//
	// Kind is "class", "method", "setter" or "parameter". For parameter
	// decorators, Name is the parameter name (empty for destructuring
	// patterns), Index its ordinal position, Rest its variadic flag and
	// Function describes the owning member; for the other kinds those fields
	// hold the target's own name and Function is nil.
	//
	// Metadata is shared by all decorators of the same class.
	Context struct {
		Kind     string
		Name     string
		Index    int
		Rest     bool
		Static   bool
		Private  bool
		Function *FunctionInfo
		Metadata *Metadata

		class string
		pass  *definitionPass
	}
)

// AddInitializer registers a deferred setup callback on the class. The
// callback joins the static initializer list when the decorated target is
// static (or is the class itself), the instance initializer list otherwise.
//
// Calling it is only valid while the class's definition pass is running;
// later calls fail with ErrInvalidAddInitializerTiming.
func (c *Context) AddInitializer(init Initializer) error {
	if init == nil {
		return fmt.Errorf("cannot register a nil initializer on class %s", c.class)
	}
	err := c.pass.addInitializer(init, c.staticScope())
	if err != nil {
		return fmt.Errorf("cannot register initializer on class %s:\n\t%w", c.class, err)
	}
	return nil
}

func (c *Context) ClassName() string {
	return c.class
}

func (c *Context) staticScope() bool {
	if c.Kind == "class" {
		return true
	}
	if c.Function != nil {
		return c.Function.Static
	}
	return c.Static
}

func (c *Context) String() string {
	if c.Kind == "parameter" {
		return fmt.Sprintf("parameter %d of %s in class %s", c.Index, c.Function.Name, c.class)
	}
	return fmt.Sprintf("%s %s in class %s", c.Kind, c.Name, c.class)
}

func contextFor(class *ClassNode, step ApplicationStep, metadata *Metadata, pass *definitionPass) *Context {
	ctx := &Context{
		Metadata: metadata,
		class:    class.name,
		pass:     pass,
	}

	switch step.Target.Kind {
	case TargetClass:
		ctx.Kind = "class"
		ctx.Name = class.name

	case TargetMember:
		member := step.Target.Member
		ctx.Kind = memberContextKind(member.kind)
		ctx.Name = member.name
		ctx.Static = member.kind.Static()
		ctx.Private = member.private

	case TargetParameter:
		member := step.Target.Member
		param := step.Target.Parameter
		ctx.Kind = "parameter"
		ctx.Name = param.name
		ctx.Index = param.index
		ctx.Rest = param.rest
		ctx.Function = &FunctionInfo{
			Kind:    memberContextKind(member.kind),
			Name:    member.name,
			Static:  member.kind.Static(),
			Private: member.private,
		}
	}

	return ctx
}

func memberContextKind(kind MemberKind) string {
	switch kind {
	case KindConstructor:
		return "class-constructor"
	case KindSetter, KindStaticSetter:
		return "setter"
	default:
		return "method"
	}
}
