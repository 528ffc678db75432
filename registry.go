package godeco

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/a-peyrard/godeco/fn"
	"github.com/a-peyrard/godeco/option"
	"github.com/a-peyrard/godeco/runner"
	"github.com/a-peyrard/godeco/slices"
	"github.com/rs/zerolog"
)

type (
	// Registry holds class declarations and defines them lazily: the first
	// request for a class runs its definition pass (parent first, when the
	// class extends another registered class) and memoizes the result.
	Registry struct {
		engine        *Engine
		registrations *SortedCOWSlice[*registration]
		byName        sync.Map // string -> *registration
		defined       sync.Map // string -> *DefinedClass

		lock   *lockManager
		logger zerolog.Logger
	}

	RegistryOptions struct {
		engine *Engine
		logger zerolog.Logger
	}

	RegistrationOptions struct {
		priority    int
		description string
	}

	registration struct {
		class       *ClassNode
		priority    int
		description string
	}
)

func WithEngine(engine *Engine) option.Option[RegistryOptions] {
	return func(opts *RegistryOptions) {
		opts.engine = engine
	}
}

func WithRegistryLogger(logger zerolog.Logger) option.Option[RegistryOptions] {
	return func(opts *RegistryOptions) {
		opts.logger = logger
	}
}

func Priority(priority int) option.Option[RegistrationOptions] {
	return func(opts *RegistrationOptions) {
		opts.priority = priority
	}
}

func Description(description string) option.Option[RegistrationOptions] {
	return func(opts *RegistrationOptions) {
		opts.description = description
	}
}

func NewRegistry(opts ...option.Option[RegistryOptions]) *Registry {
	options := option.Build(
		&RegistryOptions{logger: zerolog.Nop()},
		opts...,
	)
	if options.engine == nil {
		options.engine = NewEngine(WithLogger(options.logger))
	}

	return &Registry{
		engine:        options.engine,
		registrations: NewSortedCOWSlice[*registration](fn.ReverseComparator(compareByPriority)),
		lock:          newLockManager(),
		logger:        options.logger,
	}
}

// Register adds a class declaration. The declaration is validated eagerly so
// static shape errors surface at registration, long before any decorator
// expression is evaluated.
func (r *Registry) Register(class *ClassNode, opts ...option.Option[RegistrationOptions]) error {
	if class == nil {
		return fmt.Errorf("cannot register a nil class")
	}
	if err := validateClass(class); err != nil {
		return fmt.Errorf("failed to register class %s:\n\t%w", class.name, err)
	}
	if _, exists := r.byName.Load(class.name); exists {
		return fmt.Errorf("class %s is already registered", class.name)
	}

	options := option.Build(&RegistrationOptions{}, opts...)
	reg := &registration{
		class:       class,
		priority:    options.priority,
		description: options.description,
	}
	r.byName.Store(class.name, reg)
	r.registrations.Add(reg)

	return nil
}

func (r *Registry) MustRegister(class *ClassNode, opts ...option.Option[RegistrationOptions]) *Registry {
	if err := r.Register(class, opts...); err != nil {
		panic(fmt.Sprintf("failed to register class:\n\t%v", err))
	}
	return r
}

// Define returns the defined class for name, running the definition pass on
// first use. Heritage is defined parent first; cycles are reported.
func (r *Registry) Define(name string) (*DefinedClass, error) {
	return r.define(name, newHeritageTracker())
}

func (r *Registry) define(name string, tracker *heritageTracker) (*DefinedClass, error) {
	if defined, found := r.defined.Load(name); found {
		return defined.(*DefinedClass), nil
	}

	if err := tracker.Push(name); err != nil {
		return nil, fmt.Errorf("cannot define class %s:\n\t%w", name, err)
	}
	defer tracker.Pop()

	lock := r.lock.GetLockFor(name)
	lock.Lock()
	defer func() {
		lock.Unlock()
		r.lock.ReleaseLock(name) // the memoized definition serves later requests
	}()

	// check again now that we hold the lock, the class may have been defined
	// while we were waiting
	if defined, found := r.defined.Load(name); found {
		return defined.(*DefinedClass), nil
	}

	raw, found := r.byName.Load(name)
	if !found {
		return nil, fmt.Errorf("no class registered under name %s", name)
	}
	reg := raw.(*registration)

	var (
		parent *DefinedClass
		err    error
	)
	if parentName := reg.class.extends; parentName != "" {
		parent, err = r.define(parentName, tracker)
		if err != nil {
			return nil, fmt.Errorf("failed to define parent of class %s:\n\t%w", name, err)
		}
	}

	r.logger.Debug().Str("class", name).Msg("Running definition pass")
	defined, err := r.engine.define(reg.class, parent)
	if err != nil {
		return nil, err
	}
	r.defined.Store(name, defined)

	return defined, nil
}

// MustDefine is like Define but panics on failure.
func (r *Registry) MustDefine(name string) *DefinedClass {
	defined, err := r.Define(name)
	if err != nil {
		panic(fmt.Sprintf("failed to define class %s:\n\t%v", name, err))
	}
	return defined
}

// DefineAll defines every registered class, concurrently. Each class's own
// pass stays serialized; only unrelated classes run in parallel. Priorities
// order the launch sequence, not completion.
func (r *Registry) DefineAll(ctx context.Context) error {
	runnables := slices.Map(r.registrations.All(), func(reg *registration) runner.Runnable {
		name := reg.class.name
		return runner.RunnableFunc(func(context.Context) error {
			_, err := r.Define(name)
			return err
		})
	})

	return runner.RunAll(ctx, runnables...)
}

func (r *Registry) Describe() string {
	var b strings.Builder
	b.WriteString("* Registered classes:\n")
	for _, reg := range r.registrations.All() {
		b.WriteString(fmt.Sprintf("\t- %s (priority=%d)\n", reg.class.name, reg.priority))
		if reg.description != "" {
			b.WriteString(fmt.Sprintf("\t\tdescription: %s\n", reg.description))
		}
		if reg.class.extends != "" {
			b.WriteString(fmt.Sprintf("\t\textends: %s\n", reg.class.extends))
		}
		b.WriteString("\t\tmembers:\n")
		for _, member := range reg.class.members {
			b.WriteString(fmt.Sprintf("\t\t\t- %s (%d decorators)\n", member, len(member.decorators)))
		}
	}
	b.WriteString("* Defined classes:\n")
	r.defined.Range(func(name, _ any) bool {
		b.WriteString(fmt.Sprintf("\t- %s\n", name))
		return true
	})
	return b.String()
}

func compareByPriority(r1, r2 *registration) fn.ComparisonResult {
	if r1.priority < r2.priority {
		return fn.Less
	}
	if r1.priority > r2.priority {
		return fn.Greater
	}
	return fn.Equal
}
