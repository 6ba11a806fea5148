// Package yaml reads machine definitions written in YAML or JSON.
//
//	states: [q0, qA, qR]
//	alphabet: ["0", "1"]
//	start: q0
//	accept: qA
//	reject: qR
//	transitions:
//	  - [q0, "-", q0, right]
//	  - {from: q0, read: "0", to: qA, move: right}
//
// A transition is either a 4-item list or a from/read/to/move map.
package yaml

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/aretw0/twoway/pkg/domain"
	"github.com/mitchellh/mapstructure"
	goyaml "gopkg.in/yaml.v3"
)

// document is the loosely typed shape before transitions are normalized.
type document struct {
	States      []string `mapstructure:"states"`
	Alphabet    []string `mapstructure:"alphabet"`
	Start       string   `mapstructure:"start"`
	Accept      string   `mapstructure:"accept"`
	Reject      string   `mapstructure:"reject"`
	Transitions []any    `mapstructure:"transitions"`
}

// Parse decodes a YAML (or JSON) document into a raw definition.
func Parse(data []byte) (domain.Definition, error) {
	var raw map[string]any
	if err := goyaml.Unmarshal(data, &raw); err != nil {
		return domain.Definition{}, fmt.Errorf("failed to parse yaml: %w", err)
	}

	var doc document
	if err := decode(raw, &doc); err != nil {
		return domain.Definition{}, fmt.Errorf("invalid definition document: %w", err)
	}

	def := domain.Definition{
		States: doc.States,
		Start:  doc.Start,
		Accept: doc.Accept,
		Reject: doc.Reject,
	}
	for _, s := range doc.Alphabet {
		def.Alphabet = append(def.Alphabet, domain.Symbol(s))
	}

	for i, item := range doc.Transitions {
		t, err := decodeTransition(item)
		if err != nil {
			return domain.Definition{}, fmt.Errorf("transition %d: %w", i+1, err)
		}
		def.Transitions = append(def.Transitions, t)
	}
	return def, nil
}

func decodeTransition(item any) (domain.Transition, error) {
	switch v := item.(type) {
	case []any:
		if len(v) != 4 {
			return domain.Transition{}, fmt.Errorf("expected [state, symbol, next, direction], got %d items", len(v))
		}
		item = map[string]any{"from": v[0], "read": v[1], "to": v[2], "move": v[3]}
	case map[string]any:
	default:
		return domain.Transition{}, fmt.Errorf("invalid transition type: %T", item)
	}

	var t domain.Transition
	if err := decode(item, &t); err != nil {
		return domain.Transition{}, err
	}
	return t, nil
}

func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       directionHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var directionType = reflect.TypeOf(domain.Direction(""))

// directionHook accepts the short and mixed-case direction spellings.
func directionHook(from, to reflect.Type, data any) (any, error) {
	if to != directionType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseDirection(reflect.ValueOf(data).String())
}

// Format encodes def as YAML, one flow-style list per transition.
func Format(def domain.Definition) ([]byte, error) {
	rows := make([][]string, len(def.Transitions))
	for i, t := range def.Transitions {
		rows[i] = []string{t.From, string(t.Read), t.To, string(t.Move)}
	}

	root := &goyaml.Node{Kind: goyaml.MappingNode}
	add := func(key string, value any, flow bool) error {
		var n goyaml.Node
		if err := n.Encode(value); err != nil {
			return err
		}
		if flow {
			n.Style = goyaml.FlowStyle
		}
		root.Content = append(root.Content, &goyaml.Node{Kind: goyaml.ScalarNode, Value: key}, &n)
		return nil
	}

	symbols := make([]string, len(def.Alphabet))
	for i, s := range def.Alphabet {
		symbols[i] = string(s)
	}

	for _, f := range []struct {
		key   string
		value any
		flow  bool
	}{
		{"states", def.States, true},
		{"alphabet", symbols, true},
		{"start", def.Start, false},
		{"accept", def.Accept, false},
		{"reject", def.Reject, false},
		{"transitions", rows, false},
	} {
		if err := add(f.key, f.value, f.flow); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f.key, err)
		}
	}
	for _, row := range root.Content[len(root.Content)-1].Content {
		row.Style = goyaml.FlowStyle
	}

	var buf bytes.Buffer
	enc := goyaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Loader implements ports.DefinitionLoader for a YAML or JSON file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the file at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and decodes the file. Each call re-reads it.
func (l *Loader) Load(ctx context.Context) (domain.Definition, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("%s: %w", l.path, err)
	}
	return def, nil
}

// Name identifies the source in logs.
func (l *Loader) Name() string {
	return l.path
}
