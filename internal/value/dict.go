package value

import (
	"fmt"
	"strconv"
	"strings"
)

// DictValue backs Dict: insertion-ordered, keyed by the hashable subset of
// Value (spec §4.4 "only the hashable subset of values may be used as dict
// keys or set members"). Grounded on original_source/src/eval/types.rs's
// py_dict, which is likewise an ordered association list over hashable
// keys rather than a raw hash map.
type DictValue struct {
	keys  []Value
	vals  []Value
	index map[string]int
}

// NewDict builds an empty dict ready for Set/Get/Delete.
func NewDict() *DictValue {
	return &DictValue{index: make(map[string]int)}
}

// hashKey derives a comparable string key for v, or reports a TypeError
// if v's Kind isn't hashable (List, Dict, Set).
func hashKey(v Value) (string, error) {
	switch v.Kind {
	case Int:
		return "i:" + strconv.FormatInt(v.Int, 10), nil
	case Float:
		return "f:" + strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case Bool:
		return "b:" + strconv.FormatBool(v.Bool), nil
	case None:
		return "n:", nil
	case String:
		return "s:" + v.Str, nil
	case Tuple:
		parts := make([]string, len(v.Tuple))
		for i, e := range v.Tuple {
			k, err := hashKey(e)
			if err != nil {
				return "", err
			}
			parts[i] = k
		}
		return "t:(" + strings.Join(parts, ",") + ")", nil
	case Func:
		return fmt.Sprintf("fn:%p", v.Func), nil
	case NativeFunc:
		return fmt.Sprintf("nf:%p", v.Native), nil
	default:
		return "", fmt.Errorf("unhashable type: %s", v.Kind)
	}
}

// Set inserts or overwrites key -> val, preserving key's original
// insertion position when overwriting (spec §4.5 Dict semantics).
func (d *DictValue) Set(key, val Value) error {
	hk, err := hashKey(key)
	if err != nil {
		return err
	}
	if i, ok := d.index[hk]; ok {
		d.vals[i] = val
		return nil
	}
	d.index[hk] = len(d.keys)
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, val)
	return nil
}

// Get returns the value bound to key, if present.
func (d *DictValue) Get(key Value) (Value, bool, error) {
	hk, err := hashKey(key)
	if err != nil {
		return Value{}, false, err
	}
	i, ok := d.index[hk]
	if !ok {
		return Value{}, false, nil
	}
	return d.vals[i], true, nil
}

// Delete removes key, reporting whether it was present.
func (d *DictValue) Delete(key Value) (bool, error) {
	hk, err := hashKey(key)
	if err != nil {
		return false, err
	}
	i, ok := d.index[hk]
	if !ok {
		return false, nil
	}
	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.vals = append(d.vals[:i], d.vals[i+1:]...)
	delete(d.index, hk)
	for k, idx := range d.index {
		if idx > i {
			d.index[k] = idx - 1
		}
	}
	return true, nil
}

// Len reports the number of entries.
func (d *DictValue) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order.
func (d *DictValue) Keys() []Value { return d.keys }

// Items returns the (key, value) pairs in insertion order.
func (d *DictValue) Items() ([]Value, []Value) { return d.keys, d.vals }

func (d *DictValue) String() string {
	parts := make([]string, len(d.keys))
	for i := range d.keys {
		parts[i] = Repr(d.keys[i]) + ": " + Repr(d.vals[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func dictEqual(a, b *DictValue) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, k := range a.keys {
		bv, ok, err := b.Get(k)
		if err != nil || !ok || !Equal(a.vals[i], bv) {
			return false
		}
	}
	return true
}
