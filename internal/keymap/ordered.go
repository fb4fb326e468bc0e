package keymap

import (
	"iter"
	"slices"
	"strings"
)

// Ordered is an insertion-ordered Store. Keys keep the position of their
// first insertion; setting an existing key does not move it.
type Ordered struct {
	vals   map[string][]string
	fold   func(string) string
	keys   []string
	single bool
}

// OrderedOption configures an Ordered store.
type OrderedOption func(*Ordered)

// FoldCase makes key lookups case-insensitive. Keys are stored upper-cased.
func FoldCase() OrderedOption {
	return func(o *Ordered) {
		o.fold = strings.ToUpper
	}
}

// SingleValued keeps one value per key. Set keeps the last of its
// values; Add only stores a value when the key is absent, so the first
// added value wins.
func SingleValued() OrderedOption {
	return func(o *Ordered) {
		o.single = true
	}
}

// NewOrdered creates an empty Ordered store.
func NewOrdered(opts ...OrderedOption) *Ordered {
	o := &Ordered{vals: make(map[string][]string)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Ordered) key(k string) string {
	if o.fold != nil {
		return o.fold(k)
	}
	return k
}

// Values returns a copy of the values stored under key.
func (o *Ordered) Values(key string) []string {
	return slices.Clone(o.vals[o.key(key)])
}

// Set replaces the values of key.
func (o *Ordered) Set(key string, values ...string) {
	key = o.key(key)
	if len(values) == 0 {
		o.Delete(key)
		return
	}
	if o.single {
		values = values[len(values)-1:]
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = slices.Clone(values)
}

// Add appends a value to key.
func (o *Ordered) Add(key, value string) {
	key = o.key(key)
	if o.single && len(o.vals[key]) > 0 {
		return
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = append(o.vals[key], value)
}

// Delete removes key.
func (o *Ordered) Delete(key string) {
	key = o.key(key)
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// All iterates over keys in insertion order.
func (o *Ordered) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}

// Len returns the number of keys.
func (o *Ordered) Len() int {
	return len(o.keys)
}
