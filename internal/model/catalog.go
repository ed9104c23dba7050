package model

// PropertyDescriptor is one settable property of a catalog type
type PropertyDescriptor struct {
	// Property name as declared, e.g. "Email"
	Name string `json:"name"`

	// Raw declared type, e.g. "string", "List<OrderLine>", "int?"
	Type string `json:"type"`

	// Preceding /// summary, used as a synthesis hint
	Comment string `json:"comment,omitempty"`
}

// TypeDescriptor is a class/record definition indexed for use as a
// request-body shape. Lifetime is one parse pass.
type TypeDescriptor struct {
	// Simple type name, e.g. "CreateUserDto"
	Name string `json:"name"`

	// Properties in declaration order
	Properties []PropertyDescriptor `json:"properties,omitempty"`
}

// TypeCatalog indexes the class/record declarations of a single document.
// Lookup is by exact name; callers unwrap generic wrappers before looking up.
// Read-only after the parse pass that built it.
type TypeCatalog struct {
	types map[string]*TypeDescriptor
	order []string
}

// NewTypeCatalog creates an empty catalog
func NewTypeCatalog() *TypeCatalog {
	return &TypeCatalog{
		types: make(map[string]*TypeDescriptor),
	}
}

// Add registers a type declaration. The first declaration of a name wins;
// partial re-declarations later in the document are ignored.
func (c *TypeCatalog) Add(t *TypeDescriptor) {
	if t == nil || t.Name == "" {
		return
	}
	if _, exists := c.types[t.Name]; exists {
		return
	}
	c.types[t.Name] = t
	c.order = append(c.order, t.Name)
}

// Lookup returns the descriptor for an exact type name, or nil
func (c *TypeCatalog) Lookup(name string) *TypeDescriptor {
	return c.types[name]
}

// Has reports whether the catalog contains the exact type name
func (c *TypeCatalog) Has(name string) bool {
	_, ok := c.types[name]
	return ok
}

// Len returns the number of indexed types
func (c *TypeCatalog) Len() int {
	return len(c.types)
}

// Names returns the indexed type names in declaration order
func (c *TypeCatalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
