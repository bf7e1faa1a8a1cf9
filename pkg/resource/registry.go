package resource

import "fmt"

// Assembled pairs a resource with its assembled record bytes.
type Assembled struct {
	Resource *Resource
	Data     []byte
}

// Registry tracks assembled resources for one compilation run, keyed by
// (type, id). It preserves registration order for output writing.
type Registry struct {
	entries []Assembled
	byKey   map[registryKey]int
}

type registryKey struct {
	typ string
	id  int64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[registryKey]int)}
}

// Add registers an assembled resource. Registering a second resource with
// the same (type, id) is an error; the first registration wins.
func (reg *Registry) Add(res *Resource, data []byte) error {
	key := registryKey{typ: res.Type(), id: res.ID()}
	if _, ok := reg.byKey[key]; ok {
		return fmt.Errorf("duplicate resource %s #%d", res.Type(), res.ID())
	}
	reg.byKey[key] = len(reg.entries)
	reg.entries = append(reg.entries, Assembled{Resource: res, Data: data})
	return nil
}

// Find returns the assembled resource with the given type and id, or nil.
func (reg *Registry) Find(typ string, id int64) *Assembled {
	idx, ok := reg.byKey[registryKey{typ: typ, id: id}]
	if !ok {
		return nil
	}
	return &reg.entries[idx]
}

// All returns the assembled resources in registration order.
func (reg *Registry) All() []Assembled {
	return reg.entries
}

// Len returns the number of registered resources.
func (reg *Registry) Len() int {
	return len(reg.entries)
}
