package godeco

import "fmt"

type (
	// Initializer is a deferred setup callback registered by a decorator via
	// AddInitializer. Static initializers run once when the class definition
	// completes; instance initializers run on every construction.
	Initializer func() error

	// definitionPass tracks the validity window of the capabilities handed
	// to decorators (AddInitializer). It is open for the duration of one
	// class's evaluation and application steps, then closed for good.
	definitionPass struct {
		open bool

		instanceInitializers []Initializer
		staticInitializers   []Initializer
	}
)

func newDefinitionPass() *definitionPass {
	return &definitionPass{open: true}
}

func (p *definitionPass) addInitializer(init Initializer, static bool) error {
	if !p.open {
		return ErrInvalidAddInitializerTiming
	}
	if static {
		p.staticInitializers = append(p.staticInitializers, init)
	} else {
		p.instanceInitializers = append(p.instanceInitializers, init)
	}
	return nil
}

func (p *definitionPass) close() {
	p.open = false
}

func runInitializers(initializers []Initializer, phase string) error {
	for i, init := range initializers {
		if err := init(); err != nil {
			return fmt.Errorf("%s initializer %d of %d failed:\n\t%w", phase, i, len(initializers), err)
		}
	}
	return nil
}
