package godeco

import (
	"fmt"
	"sync"
)

type (
	// Catalog is a name-indexed collection of decorator references, so that
	// declaration trees can be assembled from decorators declared elsewhere
	// (typically wired by the decogen code generator).
	Catalog struct {
		inner sync.Map // string -> *DecoratorRef
	}

	// EmptyCatalog is the marker to embed in a struct of a package using
	// decogen: the generator emits the catalog wiring next to it.
	EmptyCatalog struct{}
)

func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add registers a decorator reference under its identifier. Registering the
// same identifier twice is an error, decorator names are global to a catalog.
func (c *Catalog) Add(ref *DecoratorRef) error {
	if ref == nil {
		return fmt.Errorf("cannot add a nil decorator to the catalog")
	}
	if _, loaded := c.inner.LoadOrStore(ref.id, ref); loaded {
		return fmt.Errorf("decorator %s is already in the catalog", ref.id)
	}
	return nil
}

func (c *Catalog) MustAdd(ref *DecoratorRef) *Catalog {
	if err := c.Add(ref); err != nil {
		panic(fmt.Sprintf("failed to add decorator to catalog:\n\t%v", err))
	}
	return c
}

func (c *Catalog) Lookup(id string) (*DecoratorRef, bool) {
	raw, found := c.inner.Load(id)
	if !found {
		return nil, false
	}
	return raw.(*DecoratorRef), true
}

// MustLookup returns the decorator registered under id, panicking when it is
// unknown. Convenient when assembling trees from generated wiring.
func (c *Catalog) MustLookup(id string) *DecoratorRef {
	ref, found := c.Lookup(id)
	if !found {
		panic(fmt.Sprintf("no decorator %s in the catalog", id))
	}
	return ref
}

func (c *Catalog) Size() int {
	size := 0
	c.inner.Range(func(_, _ any) bool {
		size++
		return true
	})
	return size
}
