// Package grammar holds the declarative production rules of the Dash
// language, the precedence and conflict declarations that disambiguate
// them, and the compiler that turns them into the immutable Table the
// parser consults.
package grammar

import "strings"

// Quant is the repetition applied to a rule item.
type Quant uint8

// Item repetitions.
const (
	One  Quant = iota // exactly once
	Opt               // zero or one
	Many              // zero or more
	Some              // one or more
)

// Min returns the fewest occurrences the quantifier allows.
func (q Quant) Min() int {
	if q == One || q == Some {
		return 1
	}
	return 0
}

// Repeats reports whether the quantifier allows more than one occurrence.
func (q Quant) Repeats() bool {
	return q == Many || q == Some
}

// Assoc is the associativity of a precedence-tagged production.
type Assoc uint8

// Associativities.
const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

// String returns the associativity name.
func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

// Item is one symbol reference inside a production.
type Item struct {
	// Symbol names a terminal, a rule, or a hidden rule (leading underscore).
	Symbol string

	// Field is the name the matched node is stored under in its parent.
	Field string

	// Quant is the repetition of the item.
	Quant Quant
}

// Production is one alternative of a rule.
type Production struct {
	Items []Item

	// Prec is the precedence level; zero means untagged. Higher binds tighter.
	Prec int

	// Assoc is the associativity among productions of equal Prec.
	Assoc Assoc
}

// Rule is a nonterminal with its alternatives.
type Rule struct {
	Name         string
	Alternatives []Production

	// Supertype rules group other rules; they never produce a node of their own.
	Supertype bool
}

// Hidden reports whether the rule is inlined into its parent instead of
// producing a node.
func (r *Rule) Hidden() bool {
	return strings.HasPrefix(r.Name, "_")
}

// Sym references name exactly once.
func Sym(name string) Item { return Item{Symbol: name, Quant: One} }

// Optional references name zero or one time.
func Optional(name string) Item { return Item{Symbol: name, Quant: Opt} }

// Repeat references name zero or more times.
func Repeat(name string) Item { return Item{Symbol: name, Quant: Many} }

// Repeat1 references name one or more times.
func Repeat1(name string) Item { return Item{Symbol: name, Quant: Some} }

// As stores matches of the item under field.
func (i Item) As(field string) Item {
	i.Field = field
	return i
}

// Seq builds a production from items.
func Seq(items ...Item) Production {
	return Production{Items: items}
}

// WithPrec tags the production with a precedence level and associativity.
func (p Production) WithPrec(level int, assoc Assoc) Production {
	p.Prec = level
	p.Assoc = assoc
	return p
}

// Choice builds single-item alternatives, one per name.
func Choice(names ...string) []Production {
	alts := make([]Production, 0, len(names))
	for _, name := range names {
		alts = append(alts, Seq(Sym(name)))
	}
	return alts
}

func rule(name string, alts ...Production) Rule {
	return Rule{Name: name, Alternatives: alts}
}

func choiceRule(name string, names ...string) Rule {
	return Rule{Name: name, Alternatives: Choice(names...)}
}

func supertype(name string, names ...string) Rule {
	return Rule{Name: name, Alternatives: Choice(names...), Supertype: true}
}
