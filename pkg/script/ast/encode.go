package ast

import "encoding/json"

// encoded is the tagged form shared by the JSON and YAML encoders, so that a
// String and an Identifier with the same text stay distinguishable.
type encoded struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Value any    `json:"value" yaml:"value"`
}

type encodedPair struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Sign       string `json:"sign" yaml:"sign"`
	Value      Value  `json:"value" yaml:"value"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
}

func encode(v Value) encoded {
	switch t := v.(type) {
	case Object:
		return encoded{Kind: KindObject, Value: []Pair(t)}
	case Array:
		return encoded{Kind: KindArray, Value: []Value(t)}
	case String:
		return encoded{Kind: KindString, Value: string(t)}
	case Number:
		return encoded{Kind: KindNumber, Value: float64(t)}
	case Identifier:
		return encoded{Kind: KindIdentifier, Value: string(t)}
	case Date:
		return encoded{Kind: KindDate, Value: t.String()}
	case Named:
		return encoded{Kind: KindNamed, Name: t.Name, Value: t.Values}
	}
	return encoded{}
}

func (o Object) MarshalJSON() ([]byte, error)     { return json.Marshal(encode(o)) }
func (a Array) MarshalJSON() ([]byte, error)      { return json.Marshal(encode(a)) }
func (s String) MarshalJSON() ([]byte, error)     { return json.Marshal(encode(s)) }
func (n Number) MarshalJSON() ([]byte, error)     { return json.Marshal(encode(n)) }
func (i Identifier) MarshalJSON() ([]byte, error) { return json.Marshal(encode(i)) }
func (d Date) MarshalJSON() ([]byte, error)       { return json.Marshal(encode(d)) }
func (n Named) MarshalJSON() ([]byte, error)      { return json.Marshal(encode(n)) }

func (o Object) MarshalYAML() (any, error)     { return encode(o), nil }
func (a Array) MarshalYAML() (any, error)      { return encode(a), nil }
func (s String) MarshalYAML() (any, error)     { return encode(s), nil }
func (n Number) MarshalYAML() (any, error)     { return encode(n), nil }
func (i Identifier) MarshalYAML() (any, error) { return encode(i), nil }
func (d Date) MarshalYAML() (any, error)       { return encode(d), nil }
func (n Named) MarshalYAML() (any, error)      { return encode(n), nil }

// MarshalJSON encodes the pair as {"identifier","sign","value","line"}.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodedPair{
		Identifier: p.Identifier,
		Sign:       p.Sign,
		Value:      p.Value,
		Line:       p.Location.Line,
	})
}

// MarshalYAML mirrors MarshalJSON.
func (p Pair) MarshalYAML() (any, error) {
	return encodedPair{
		Identifier: p.Identifier,
		Sign:       p.Sign,
		Value:      p.Value,
		Line:       p.Location.Line,
	}, nil
}
