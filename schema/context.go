package schema

import "fmt"

// YangModuleName is the module carrying reserved annotations, among them
// the storage slot of the sorted-sibling index anchor.  A context without
// this module cannot support sorted indexes.
const YangModuleName = "yang"

// Context holds the set of compiled modules a document tree is typed
// against.
type Context struct {
	modules map[string]*Module
	order   []string
}

// Module is one compiled schema module.
type Module struct {
	Ctx *Context

	Name      string
	Namespace string
	Prefix    string

	// Nodes holds the module's top-level schema nodes.
	Nodes []*Node
}

// Node returns the top-level schema node with the given name, or nil.
func (m *Module) Node(name string) *Node {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// NewContext creates an empty schema context.  Most callers want to add
// YangModule() before loading their own modules.
func NewContext() *Context {
	return &Context{modules: map[string]*Module{}}
}

// AddModule registers a compiled module with the context.
func (c *Context) AddModule(m *Module) error {
	if _, ok := c.modules[m.Name]; ok {
		return fmt.Errorf("%w: module %q already in context", ErrSchema, m.Name)
	}
	m.Ctx = c
	c.modules[m.Name] = m
	c.order = append(c.order, m.Name)
	return nil
}

// Module returns the module with the given name, or nil.
func (c *Context) Module(name string) *Module {
	return c.modules[name]
}

// Modules returns all registered modules in registration order.
func (c *Context) Modules() []*Module {
	res := make([]*Module, 0, len(c.order))
	for _, name := range c.order {
		res = append(res, c.modules[name])
	}
	return res
}

// HasYang reports whether the reserved yang module is registered, i.e.
// whether sorted indexes can be anchored in this context.
func (c *Context) HasYang() bool {
	return c.modules[YangModuleName] != nil
}

// YangModule builds the reserved yang module.  It carries no data nodes;
// it only reserves the annotation namespace used for runtime metadata.
func YangModule() *Module {
	return &Module{
		Name:      YangModuleName,
		Namespace: "urn:ietf:params:xml:ns:yang:1",
		Prefix:    "yang",
	}
}
