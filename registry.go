package jatti

import (
	"fmt"
	"sort"
	"sync"
)

// Function is a built-in library function available to every program.
type Function func(args ...any) (any, error)

// FunctionRegistry manages registered functions in a thread-safe manner
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		funcs: make(map[string]Function),
	}
}

// Register adds a function to the registry
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if name == "" {
		return fmt.Errorf("function name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("function %s already registered", name)
	}
	r.funcs[name] = fn
	return nil
}

func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	return fn, ok
}

// List returns all registered function names in sorted order.
func (r *FunctionRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var globalRegistry = NewFunctionRegistry()

// RegisterFunction registers a function in the global registry. Such
// functions exist only in the interpreter: the transpiler rejects programs
// that call them.
func RegisterFunction(name string, fn Function) error {
	return globalRegistry.Register(name, fn)
}

// LookupFunction looks up a function in the global registry
func LookupFunction(name string) (Function, bool) {
	return globalRegistry.Lookup(name)
}

// Builtins lists the names of all registered built-in functions.
func Builtins() []string {
	return globalRegistry.List()
}

// Module is a named set of host members a program can import with
// python_le_aa. Members are HostFunc values or plain constants.
type Module struct {
	Name    string
	Members map[string]any
	// Python names the module the transpiler imports from. Empty means
	// the members are provided by the embedded runtime under the
	// __jatti_<module>_<member> prefix.
	Python string
}

// ModuleRegistry manages host modules in a thread-safe manner.
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{modules: make(map[string]*Module)}
}

func (r *ModuleRegistry) Register(m *Module) error {
	if m == nil || m.Name == "" {
		return fmt.Errorf("module name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[m.Name]; exists {
		return fmt.Errorf("module %s already registered", m.Name)
	}
	r.modules[m.Name] = m
	return nil
}

func (r *ModuleRegistry) Lookup(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

var globalModules = NewModuleRegistry()

// RegisterModule makes a host module importable by every program.
func RegisterModule(m *Module) error {
	return globalModules.Register(m)
}

func LookupModule(name string) (*Module, bool) {
	return globalModules.Lookup(name)
}
