package deadline

import "fmt"

// Environment is an insertion-ordered set of environment variables. The order
// determines the EnvironmentKeyValueN indices on the wire.
type Environment struct {
	keys   []string
	values map[string]string
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]string)}
}

// Set assigns key. A new key is appended; an existing key keeps its position.
func (e *Environment) Set(key, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the value for key.
func (e *Environment) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (e *Environment) Keys() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of variables.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Clone returns an independent copy.
func (e *Environment) Clone() *Environment {
	c := NewEnvironment()
	if e == nil {
		return c
	}
	for _, k := range e.keys {
		c.Set(k, e.values[k])
	}
	return c
}

// Pairs returns KEY=VALUE strings in order.
func (e *Environment) Pairs() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, fmt.Sprintf("%s=%s", k, e.values[k]))
	}
	return out
}
