package grammar

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/yaklabco/dashgram/pkg/syntax"
)

// TypeRef names a node kind in the catalog.
type TypeRef struct {
	Type  string `json:"type"  yaml:"type"`
	Named bool   `json:"named" yaml:"named"`
}

// ChildInfo describes the nodes that may occupy a field or the unfielded
// child positions of a node.
type ChildInfo struct {
	Multiple bool      `json:"multiple" yaml:"multiple"`
	Required bool      `json:"required" yaml:"required"`
	Types    []TypeRef `json:"types"    yaml:"types"`
}

// NodeType is the catalog entry for one node kind.
type NodeType struct {
	Type     string               `json:"type"               yaml:"type"`
	Named    bool                 `json:"named"              yaml:"named"`
	Extra    bool                 `json:"extra,omitempty"    yaml:"extra,omitempty"`
	Fields   map[string]ChildInfo `json:"fields,omitempty"   yaml:"fields,omitempty"`
	Children *ChildInfo           `json:"children,omitempty" yaml:"children,omitempty"`
	Subtypes []TypeRef            `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
}

// Catalog maps every node kind to its shape.
type Catalog map[string]NodeType

// Names returns the kinds in the catalog, sorted.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand returns the concrete kinds a reference can stand for, resolving
// supertypes recursively.
func (c Catalog) Expand(ref TypeRef) []TypeRef {
	entry, ok := c[ref.Type]
	if !ok || len(entry.Subtypes) == 0 {
		return []TypeRef{ref}
	}
	var out []TypeRef
	for _, sub := range entry.Subtypes {
		out = append(out, c.Expand(sub)...)
	}
	return out
}

// Allows reports whether a node of kind sym may appear where info applies.
func (c Catalog) Allows(info ChildInfo, sym syntax.Symbol) bool {
	for _, ref := range info.Types {
		for _, concrete := range c.Expand(ref) {
			if concrete.Type == sym.String() && concrete.Named == sym.IsNamed() {
				return true
			}
		}
	}
	return false
}

// MarshalIndent renders the catalog as indented JSON with sorted keys.
func (c Catalog) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding node-type catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// anonKey collects anonymous terminals; they only surface when a field
// applies to them.
const anonKey = "\x00"

// childKey collects unfielded named children.
const childKey = ""

const many = 2

type summary struct {
	types map[TypeRef]bool
	min   int
	max   int
}

type shape map[string]*summary

func buildCatalog(t *Table) Catalog {
	cat := make(Catalog)

	for _, sym := range syntax.AllSymbols() {
		if !sym.IsTerminal() || sym == syntax.SymEnd {
			continue
		}
		cat[sym.String()] = NodeType{Type: sym.String(), Named: sym.IsNamed(), Extra: sym.IsExtra()}
	}

	for _, name := range t.order {
		r := t.rules[name]
		if r.Hidden() {
			continue
		}
		if r.Supertype {
			entry := NodeType{Type: name, Named: true}
			for _, alt := range r.Alternatives {
				entry.Subtypes = append(entry.Subtypes, refFor(alt.Items[0].Symbol))
			}
			sortRefs(entry.Subtypes)
			cat[name] = entry
			continue
		}

		s := t.ruleShape(r, map[string]bool{name: true})
		entry := NodeType{Type: name, Named: true}
		for key, sum := range s {
			switch key {
			case anonKey:
				continue
			case childKey:
				info := sum.info()
				entry.Children = &info
			default:
				if entry.Fields == nil {
					entry.Fields = make(map[string]ChildInfo)
				}
				entry.Fields[key] = sum.info()
			}
		}
		cat[name] = entry
	}

	return cat
}

func refFor(name string) TypeRef {
	sym, ok := syntax.LookupSymbol(name)
	if !ok {
		return TypeRef{Type: name, Named: true}
	}
	return TypeRef{Type: name, Named: sym.IsNamed()}
}

func (s *summary) info() ChildInfo {
	refs := make([]TypeRef, 0, len(s.types))
	for ref := range s.types {
		refs = append(refs, ref)
	}
	sortRefs(refs)
	return ChildInfo{Multiple: s.max >= many, Required: s.min > 0, Types: refs}
}

func sortRefs(refs []TypeRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Type != refs[j].Type {
			return refs[i].Type < refs[j].Type
		}
		return refs[i].Named && !refs[j].Named
	})
}

// ruleShape merges the alternatives of r.
func (t *Table) ruleShape(r *Rule, visiting map[string]bool) shape {
	var out shape
	for i, alt := range r.Alternatives {
		s := t.seqShape(alt.Items, visiting)
		if i == 0 {
			out = s
			continue
		}
		out = choose(out, s)
	}
	return out
}

func (t *Table) seqShape(items []Item, visiting map[string]bool) shape {
	out := make(shape)
	for _, item := range items {
		s := t.itemShape(item, visiting)
		for key, sum := range s {
			prev, ok := out[key]
			if !ok {
				out[key] = sum
				continue
			}
			for ref := range sum.types {
				prev.types[ref] = true
			}
			prev.min += sum.min
			prev.max = min(prev.max+sum.max, many)
		}
	}
	return out
}

func (t *Table) itemShape(item Item, visiting map[string]bool) shape {
	var s shape

	r, isRule := t.rules[item.Symbol]
	switch {
	case isRule && r.Hidden() && !visiting[item.Symbol]:
		visiting[item.Symbol] = true
		s = t.ruleShape(r, visiting)
		delete(visiting, item.Symbol)
	default:
		ref := refFor(item.Symbol)
		key := childKey
		if !ref.Named {
			key = anonKey
		}
		s = shape{key: &summary{types: map[TypeRef]bool{ref: true}, min: 1, max: 1}}
	}

	if item.Field != "" {
		s = applyField(s, item.Field)
	}

	for _, sum := range s {
		if item.Quant.Min() == 0 {
			sum.min = 0
		}
		if item.Quant.Repeats() && sum.max > 0 {
			sum.max = many
		}
	}
	return s
}

// applyField moves unfielded entries, anonymous or not, under field.
func applyField(s shape, field string) shape {
	out := make(shape, len(s))
	target := &summary{types: make(map[TypeRef]bool)}
	moved := false
	for key, sum := range s {
		if key != childKey && key != anonKey {
			out[key] = sum
			continue
		}
		for ref := range sum.types {
			target.types[ref] = true
		}
		if !moved {
			target.min, target.max = sum.min, sum.max
		} else {
			target.min = max(target.min, sum.min)
			target.max = min(target.max+sum.max, many)
		}
		moved = true
	}
	if moved {
		out[field] = target
	}
	return out
}

// choose merges two alternative shapes: an entry absent from one side is
// optional.
func choose(a, b shape) shape {
	out := make(shape, len(a)+len(b))
	for key, sa := range a {
		merged := &summary{types: make(map[TypeRef]bool), min: sa.min, max: sa.max}
		for ref := range sa.types {
			merged.types[ref] = true
		}
		if sb, ok := b[key]; ok {
			for ref := range sb.types {
				merged.types[ref] = true
			}
			merged.min = min(sa.min, sb.min)
			merged.max = max(sa.max, sb.max)
		} else {
			merged.min = 0
		}
		out[key] = merged
	}
	for key, sb := range b {
		if _, ok := a[key]; ok {
			continue
		}
		merged := &summary{types: make(map[TypeRef]bool), max: sb.max}
		for ref := range sb.types {
			merged.types[ref] = true
		}
		out[key] = merged
	}
	return out
}
