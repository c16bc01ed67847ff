package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"

	"github.com/flavono123/peek/internal/value"
)

// DecodeYAML decodes a YAML stream. Several documents become an array.
// Mapping order is preserved and anchors decode to one shared value, so
// a recursive alias yields a real cycle.
func DecodeYAML(data []byte) (any, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))

	var docs []any
	for {
		chunk, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading yaml: %w", err)
		}

		var node yaml.Node
		if err := yaml.Unmarshal(chunk, &node); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		if len(node.Content) == 0 {
			continue
		}
		d := &yamlDecoder{anchors: map[*yaml.Node]any{}}
		v, err := d.decode(&node)
		if err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		docs = append(docs, v)
	}

	switch len(docs) {
	case 0:
		return nil, ErrEmptyDocument
	case 1:
		return docs[0], nil
	}
	return docs, nil
}

type yamlDecoder struct {
	anchors map[*yaml.Node]any
}

func (d *yamlDecoder) decode(n *yaml.Node) (any, error) {
	if v, ok := d.anchors[n]; ok {
		return v, nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case yaml.MappingNode:
		if keysClash(n) {
			return d.decodeMap(n)
		}
		obj := value.NewObject()
		d.remember(n, obj)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := d.decode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, len(n.Content))
		d.remember(n, arr)
		for i, c := range n.Content {
			v, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

// keysClash reports whether two keys of a mapping share their text, like
// 1 and "1". Such mappings decode to a value.Map keyed by the typed keys
// so neither entry is lost.
func keysClash(n *yaml.Node) bool {
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind == yaml.AliasNode && k.Alias != nil {
			k = k.Alias
		}
		if _, ok := seen[k.Value]; ok {
			return true
		}
		seen[k.Value] = struct{}{}
	}
	return false
}

func (d *yamlDecoder) decodeMap(n *yaml.Node) (any, error) {
	m := value.NewMap()
	d.remember(n, m)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, err := d.decode(n.Content[i])
		if err != nil {
			return nil, err
		}
		if k != nil && !reflect.TypeOf(k).Comparable() {
			k = n.Content[i].Value
		}
		v, err := d.decode(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

// remember registers a container before its children are decoded so an
// alias back to it resolves to the same value.
func (d *yamlDecoder) remember(n *yaml.Node, v any) {
	if n.Anchor != "" {
		d.anchors[n] = v
	}
}
