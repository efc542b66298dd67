package analytics

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap/zapcore"
)

// Params is an insertion-ordered set of event parameters. Values may be
// strings, numbers, bools, nested *Params or []*Params. The zero value is
// ready to use and a nil *Params reads as empty.
type Params struct {
	m *orderedmap.OrderedMap[string, any]
}

func NewParams() *Params {
	return &Params{m: orderedmap.New[string, any]()}
}

// Set stores value under key, keeping the key's original position when it
// already exists.
func (p *Params) Set(key string, value any) *Params {
	if p.m == nil {
		p.m = orderedmap.New[string, any]()
	}
	p.m.Set(key, value)
	return p
}

func (p *Params) Get(key string) (any, bool) {
	if p == nil || p.m == nil {
		return nil, false
	}
	return p.m.Get(key)
}

func (p *Params) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

func (p *Params) Keys() []string {
	keys := make([]string, 0, p.Len())
	p.Each(func(key string, _ any) {
		keys = append(keys, key)
	})
	return keys
}

// Each visits entries in insertion order.
func (p *Params) Each(fn func(key string, value any)) {
	if p == nil || p.m == nil {
		return
	}
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone copies p, descending into nested params.
func (p *Params) Clone() *Params {
	out := NewParams()
	p.Each(func(key string, value any) {
		out.Set(key, cloneValue(value))
	})
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Params:
		return x.Clone()
	case []*Params:
		cp := make([]*Params, len(x))
		for i, nested := range x {
			cp[i] = nested.Clone()
		}
		return cp
	default:
		return v
	}
}

// MarshalJSON encodes the params with their original value types.
func (p *Params) MarshalJSON() ([]byte, error) {
	if p == nil || p.m == nil {
		return []byte("{}"), nil
	}
	return p.m.MarshalJSON()
}

func (p *Params) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, any]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	p.m = m
	return nil
}

// MarshalLogObject renders every value in its display form.
func (p *Params) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	p.Each(func(key string, value any) {
		enc.AddString(key, Stringify(value))
	})
	return nil
}

var (
	_ json.Marshaler          = (*Params)(nil)
	_ json.Unmarshaler        = (*Params)(nil)
	_ zapcore.ObjectMarshaler = (*Params)(nil)
)
