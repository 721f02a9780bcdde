// Package hostbind adapts Go value types to the protocol surface of a
// dynamically typed host runtime: positional any-typed construction,
// attribute lookup, named method calls and operator dispatch. The
// adaptation layer stays thin; all semantics live on the bound types.
package hostbind

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrTypeNotFound   = errors.New("type is not registered")
	ErrAttrNotFound   = errors.New("attribute not found")
	ErrMethodNotFound = errors.New("method not found")
	ErrNoOperator     = errors.New("operator not defined for type")
	ErrBadArguments   = errors.New("bad arguments")
)

// Operator identifies a host-native operator slot.
type Operator int

const (
	OpAdd Operator = iota
	OpMul
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLen
	OpIter
	OpRepr
)

type (
	// Constructor builds an instance from positional host arguments.
	Constructor func(args ...any) (any, error)
	// Method is a named operation invoked on an instance.
	Method func(recv any, args ...any) (any, error)
	// StaticMethod is a named operation invoked on the type itself.
	StaticMethod func(args ...any) (any, error)
	// Getter reads an attribute from an instance.
	Getter func(recv any) (any, error)
	// BinaryFunc implements a two-operand operator slot.
	BinaryFunc func(recv any, operand any) (any, error)
	// UnaryFunc implements a single-operand operator slot.
	UnaryFunc func(recv any) (any, error)
)

// TypeBinding describes one type as the host sees it. There are no
// attribute setters: bound types are exposed read-only.
type TypeBinding struct {
	name    string
	new     Constructor
	attrs   map[string]Getter
	methods map[string]Method
	statics map[string]StaticMethod
	binary  map[Operator]BinaryFunc
	unary   map[Operator]UnaryFunc
}

func NewTypeBinding(name string, constructor Constructor) *TypeBinding {
	return &TypeBinding{
		name:    name,
		new:     constructor,
		attrs:   make(map[string]Getter),
		methods: make(map[string]Method),
		statics: make(map[string]StaticMethod),
		binary:  make(map[Operator]BinaryFunc),
		unary:   make(map[Operator]UnaryFunc),
	}
}

func (b *TypeBinding) Name() string {
	return b.name
}

func (b *TypeBinding) Attr(name string, get Getter) *TypeBinding {
	b.attrs[name] = get
	return b
}

func (b *TypeBinding) Method(name string, m Method) *TypeBinding {
	b.methods[name] = m
	return b
}

func (b *TypeBinding) Static(name string, m StaticMethod) *TypeBinding {
	b.statics[name] = m
	return b
}

func (b *TypeBinding) BinaryOp(op Operator, fn BinaryFunc) *TypeBinding {
	b.binary[op] = fn
	return b
}

func (b *TypeBinding) UnaryOp(op Operator, fn UnaryFunc) *TypeBinding {
	b.unary[op] = fn
	return b
}

// ==============================================
// Dispatch
// ==============================================

func (b *TypeBinding) New(args ...any) (any, error) {
	return b.new(args...)
}

func (b *TypeBinding) GetAttr(recv any, name string) (any, error) {
	get, exists := b.attrs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrAttrNotFound, b.name, name)
	}
	return get(recv)
}

func (b *TypeBinding) Call(recv any, method string, args ...any) (any, error) {
	if m, exists := b.methods[method]; exists {
		return m(recv, args...)
	}
	if m, exists := b.statics[method]; exists {
		return m(args...)
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, b.name, method)
}

func (b *TypeBinding) CallStatic(method string, args ...any) (any, error) {
	m, exists := b.statics[method]
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, b.name, method)
	}
	return m(args...)
}

func (b *TypeBinding) Binary(op Operator, recv any, operand any) (any, error) {
	fn, exists := b.binary[op]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoOperator, b.name)
	}
	return fn(recv, operand)
}

func (b *TypeBinding) Unary(op Operator, recv any) (any, error) {
	fn, exists := b.unary[op]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoOperator, b.name)
	}
	return fn(recv)
}

// ==============================================
// Module namespace
// ==============================================

// Module is a named namespace of type bindings, the unit a host
// runtime imports.
type Module struct {
	name  string
	types map[string]*TypeBinding
	mu    sync.RWMutex
}

func NewModule(name string) *Module {
	return &Module{
		name:  name,
		types: make(map[string]*TypeBinding),
	}
}

func (m *Module) Name() string {
	return m.name
}

// Register adds a binding under its external name. Re-registering a
// name replaces the previous binding.
func (m *Module) Register(b *TypeBinding) {
	m.mu.Lock()
	m.types[b.name] = b
	m.mu.Unlock()
}

func (m *Module) Lookup(name string) (*TypeBinding, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, exists := m.types[name]
	return b, exists
}

func (m *Module) TypeNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.types))
	for name := range m.types {
		names = append(names, name)
	}
	return names
}

// New constructs an instance of a registered type from positional
// host arguments.
func (m *Module) New(typeName string, args ...any) (any, error) {
	b, exists := m.Lookup(typeName)
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrTypeNotFound, m.name, typeName)
	}
	return b.New(args...)
}
