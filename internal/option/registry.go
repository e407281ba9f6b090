// Package option is the typed registry of runtime-tunable engine settings.
//
// Each option has a kind fixed at registration (Trigger, Integer, Text or
// Boolean), a default and current value of that kind, inclusive bounds for
// Integer options, and a change handler run synchronously after every
// successful Set. Registering an existing name replaces the entry in place,
// so List keeps registration order.
package option

import (
	"fmt"
	"sync"
)

// Bounds is the inclusive [Min, Max] range of an Integer option.
type Bounds struct {
	Min int64
	Max int64
}

// ChangeHandler runs on the caller's goroutine after a successful Set.
// An error it returns is propagated to the caller of Set.
type ChangeHandler func(Value) error

// Info is a snapshot of one option.
type Info struct {
	Name    string
	Kind    Kind
	Current Value
	Default Value
	Bounds  *Bounds // only for Integer options
}

type entry struct {
	kind     Kind
	current  Value
	def      Value
	bounds   Bounds
	onChange ChangeHandler
}

// Registry holds the options of one engine process.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register inserts or replaces an option. bounds is required for Integer
// options and ignored otherwise; the default must lie within it.
func (r *Registry) Register(name string, kind Kind, def Value, bounds *Bounds, onChange ChangeHandler) error {
	if name == "" {
		return fmt.Errorf("register option: name is empty")
	}
	if def.Kind() != kind {
		return &TypeMismatchError{Name: name, Want: kind, Got: def.Kind()}
	}

	e := &entry{kind: kind, current: def, def: def, onChange: onChange}
	if kind == Integer {
		if bounds == nil {
			return fmt.Errorf("register option %s: spin option requires bounds", name)
		}
		n, _ := def.AsInt()
		if bounds.Min > bounds.Max || n < bounds.Min || n > bounds.Max {
			return fmt.Errorf("register option %s: default %d outside [%d, %d]", name, n, bounds.Min, bounds.Max)
		}
		e.bounds = *bounds
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = e
	return nil
}

// RegisterTrigger registers a button option. Setting it calls fire.
func (r *Registry) RegisterTrigger(name string, fire func() error) error {
	return r.Register(name, Trigger, UnitValue(), nil, func(Value) error {
		if fire == nil {
			return nil
		}
		return fire()
	})
}

// RegisterInteger registers a spin option.
func (r *Registry) RegisterInteger(name string, def, lo, hi int64, onChange func(int64) error) error {
	return r.Register(name, Integer, IntValue(def), &Bounds{Min: lo, Max: hi}, func(v Value) error {
		if onChange == nil {
			return nil
		}
		n, _ := v.AsInt()
		return onChange(n)
	})
}

// RegisterText registers a string option.
func (r *Registry) RegisterText(name, def string, onChange func(string) error) error {
	return r.Register(name, Text, TextValue(def), nil, func(v Value) error {
		if onChange == nil {
			return nil
		}
		s, _ := v.AsText()
		return onChange(s)
	})
}

// RegisterBoolean registers a check option.
func (r *Registry) RegisterBoolean(name string, def bool, onChange func(bool) error) error {
	return r.Register(name, Boolean, BoolValue(def), nil, func(v Value) error {
		if onChange == nil {
			return nil
		}
		b, _ := v.AsBool()
		return onChange(b)
	})
}

// Get returns the current value of name, which must be of the given kind.
func (r *Registry) Get(name string, kind Kind) (Value, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Value{}, &NotFoundError{Name: name}
	}
	if e.kind != kind {
		return Value{}, &TypeMismatchError{Name: name, Want: e.kind, Got: kind}
	}
	return e.current, nil
}

// Int returns the current value of a spin option.
func (r *Registry) Int(name string) (int64, error) {
	v, err := r.Get(name, Integer)
	if err != nil {
		return 0, err
	}
	n, _ := v.AsInt()
	return n, nil
}

// Text returns the current value of a string option.
func (r *Registry) Text(name string) (string, error) {
	v, err := r.Get(name, Text)
	if err != nil {
		return "", err
	}
	s, _ := v.AsText()
	return s, nil
}

// Bool returns the current value of a check option.
func (r *Registry) Bool(name string) (bool, error) {
	v, err := r.Get(name, Boolean)
	if err != nil {
		return false, err
	}
	b, _ := v.AsBool()
	return b, nil
}

// Set validates value against the option and replaces the current value,
// then runs the change handler on the calling goroutine. A rejected value
// leaves the option untouched and the handler uncalled.
func (r *Registry) Set(name string, value Value) error {
	r.mu.Lock()
	e, ok := r.entries[name]
	if !ok {
		r.mu.Unlock()
		return &NotFoundError{Name: name}
	}
	if value.Kind() != e.kind {
		r.mu.Unlock()
		return &TypeMismatchError{Name: name, Want: e.kind, Got: value.Kind()}
	}
	if e.kind == Integer {
		n, _ := value.AsInt()
		if n > e.bounds.Max {
			r.mu.Unlock()
			return &RangeError{Name: name, Bound: "max", Limit: e.bounds.Max, Value: n}
		}
		if n < e.bounds.Min {
			r.mu.Unlock()
			return &RangeError{Name: name, Bound: "min", Limit: e.bounds.Min, Value: n}
		}
	}
	e.current = value
	onChange := e.onChange
	r.mu.Unlock()

	if onChange == nil {
		return nil
	}
	if err := onChange(value); err != nil {
		return fmt.Errorf("option %s change handler: %w", name, err)
	}
	return nil
}

// Trigger fires a button option.
func (r *Registry) Trigger(name string) error {
	return r.Set(name, UnitValue())
}

// Kind returns the declared kind of name.
func (r *Registry) Kind(name string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return 0, &NotFoundError{Name: name}
	}
	return e.kind, nil
}

// Describe returns a snapshot of a single option.
func (r *Registry) Describe(name string) (Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Info{}, &NotFoundError{Name: name}
	}
	return e.info(name), nil
}

// List returns a snapshot of every option in registration order.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].info(name))
	}
	return out
}

func (e *entry) info(name string) Info {
	info := Info{
		Name:    name,
		Kind:    e.kind,
		Current: e.current,
		Default: e.def,
	}
	if e.kind == Integer {
		b := e.bounds
		info.Bounds = &b
	}
	return info
}
