// Package valuemap implements the tagged value used for WorldEvent's
// opaque data payload and for component serialize projections. Design
// note (see SPEC_FULL.md §11 / spec.md §9): a heterogeneous language-native
// map must never leak across the component or event boundary, because
// snapshots, branch "what-if" patches, and observer serialization all need
// to deep-clone and round-trip it through JSON. A small hand-rolled sum
// type gives all three a single representation to clone and marshal.
package valuemap

import "encoding/json"

// Kind tags which field of Value is meaningful.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// Value is a JSON-like tagged value: null, bool, int, float, string, a
// list of Values, or a string-keyed map of Values.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

func Null() Value              { return Value{kind: KindNull} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func Int(i int64) Value        { return Value{kind: KindInt, i: i} }
func Float(f float64) Value    { return Value{kind: KindFloat, f: f} }
func Str(s string) Value       { return Value{kind: KindString, s: s} }
func List(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}
func Map(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() (bool, bool)       { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)       { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool)   { return v.f, v.kind == KindFloat }
func (v Value) AsString() (string, bool)   { return v.s, v.kind == KindString }
func (v Value) AsList() ([]Value, bool)    { return v.list, v.kind == KindList }
func (v Value) AsMap() (map[string]Value, bool) { return v.m, v.kind == KindMap }

// Clone performs a deep copy, as required for snapshot capture/restore
// independence.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		out := make([]Value, len(v.list))
		for i, item := range v.list {
			out[i] = item.Clone()
		}
		return Value{kind: KindList, list: out}
	case KindMap:
		out := make(map[string]Value, len(v.m))
		for k, item := range v.m {
			out[k] = item.Clone()
		}
		return Value{kind: KindMap, m: out}
	default:
		return v
	}
}

// CloneRecord deep-clones a string-keyed record of Values, as used for
// event data payloads and component serialize projections.
func CloneRecord(r map[string]Value) map[string]Value {
	out := make(map[string]Value, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}

// MergeInto merges patch over base, returning a new record. Keys in patch
// win; keys absent from patch keep base's value. Used by branch divergence
// actions (ChangeDecision, ReverseOutcome) to apply a partial patch.
func MergeInto(base, patch map[string]Value) map[string]Value {
	out := CloneRecord(base)
	for k, v := range patch {
		out[k] = v.Clone()
	}
	return out
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return json.Marshal(nil)
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		return json.Marshal(v.list)
	case KindMap:
		return json.Marshal(v.m)
	default:
		return json.Marshal(nil)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case float64:
		if x == float64(int64(x)) {
			return Int(int64(x))
		}
		return Float(x)
	case string:
		return Str(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = fromAny(item)
		}
		return List(items...)
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, item := range x {
			m[k] = fromAny(item)
		}
		return Map(m)
	default:
		return Null()
	}
}

// Record is a convenience alias for a string-keyed value map, the shape
// every component's Serialize() projection and every event's Data payload
// takes.
type Record = map[string]Value
