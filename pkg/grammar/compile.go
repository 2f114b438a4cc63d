package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yaklabco/dashgram/pkg/syntax"
)

// ErrUnknownSymbol is returned when a rule references a name that is neither
// a terminal nor a rule.
var ErrUnknownSymbol = errors.New("unknown grammar symbol")

// ConflictError reports two alternatives that start with the same terminal
// without a precedence tag or a declared conflict.
type ConflictError struct {
	Rule         string
	Alternatives [2]int
	Terminals    syntax.TokenSet
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unresolved conflict in %s: alternatives %d and %d both start with %s",
		e.Rule, e.Alternatives[0], e.Alternatives[1], e.Terminals)
}

// Operator is the precedence entry for an operator terminal.
type Operator struct {
	Symbol syntax.Symbol
	Level  int
	Assoc  Assoc

	// Node is the nonterminal produced when the operator applies.
	Node syntax.Symbol

	// Prefix is set for unary operators written before their operand.
	Prefix bool
}

// Table is a compiled grammar. It is immutable and safe for concurrent use.
type Table struct {
	order     []string
	rules     map[string]*Rule
	first     map[string]syntax.TokenSet
	nullable  map[string]bool
	altFirst  map[string][]syntax.TokenSet
	operators map[syntax.Symbol]Operator
	conflicts []Conflict
	catalog   Catalog
}

//nolint:gochecknoglobals // Process-wide compiled grammar, built once.
var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the compiled Dash grammar. It is compiled on first use and
// shared by every parse session.
func Default() *Table {
	defaultOnce.Do(func() {
		table, err := Compile(Rules(), Conflicts())
		if err != nil {
			panic(fmt.Sprintf("dash grammar does not compile: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// Compile checks rules and conflicts and computes the prediction data the
// parser needs: FIRST sets, nullability, the operator precedence table and
// the node-type catalog. Every pair of alternatives of one rule that can
// start with the same terminal must be covered by a precedence tag or a
// declared prediction conflict, and every declared prediction conflict must
// correspond to such a pair.
func Compile(rules []Rule, conflicts []Conflict) (*Table, error) {
	table := &Table{
		rules:     make(map[string]*Rule, len(rules)),
		first:     make(map[string]syntax.TokenSet, len(rules)),
		nullable:  make(map[string]bool, len(rules)),
		altFirst:  make(map[string][]syntax.TokenSet, len(rules)),
		operators: make(map[syntax.Symbol]Operator),
		conflicts: append([]Conflict(nil), conflicts...),
	}

	for i := range rules {
		r := rules[i]
		if _, dup := table.rules[r.Name]; dup {
			return nil, fmt.Errorf("duplicate rule %q", r.Name)
		}
		if !r.Hidden() {
			if sym, ok := syntax.LookupSymbol(r.Name); !ok || sym.IsTerminal() {
				return nil, fmt.Errorf("rule %q: %w", r.Name, ErrUnknownSymbol)
			}
		}
		table.rules[r.Name] = &r
		table.order = append(table.order, r.Name)
	}

	if err := table.checkReferences(); err != nil {
		return nil, err
	}

	table.computeFirst()

	if err := table.buildOperators(); err != nil {
		return nil, err
	}
	if err := table.checkConflicts(); err != nil {
		return nil, err
	}

	table.catalog = buildCatalog(table)

	return table, nil
}

func (t *Table) checkReferences() error {
	for _, name := range t.order {
		for _, alt := range t.rules[name].Alternatives {
			for _, item := range alt.Items {
				if _, ok := t.rules[item.Symbol]; ok {
					continue
				}
				if sym, ok := syntax.LookupSymbol(item.Symbol); ok && sym.IsTerminal() {
					continue
				}
				return fmt.Errorf("rule %q references %q: %w", name, item.Symbol, ErrUnknownSymbol)
			}
		}
	}
	return nil
}

// computeFirst runs the FIRST/nullable fixpoint over all rules.
func (t *Table) computeFirst() {
	for changed := true; changed; {
		changed = false
		for _, name := range t.order {
			r := t.rules[name]
			var set syntax.TokenSet
			nullable := false
			for _, alt := range r.Alternatives {
				altSet, altNullable := t.firstOfItems(alt.Items)
				set = set.Union(altSet)
				nullable = nullable || altNullable
			}
			if set != t.first[name] || nullable != t.nullable[name] {
				t.first[name] = set
				t.nullable[name] = nullable
				changed = true
			}
		}
	}

	for _, name := range t.order {
		r := t.rules[name]
		alts := make([]syntax.TokenSet, len(r.Alternatives))
		for i, alt := range r.Alternatives {
			alts[i], _ = t.firstOfItems(alt.Items)
		}
		t.altFirst[name] = alts
	}
}

func (t *Table) firstOfItems(items []Item) (syntax.TokenSet, bool) {
	var set syntax.TokenSet
	for _, item := range items {
		first, nullable := t.firstOfSymbol(item.Symbol)
		set = set.Union(first)
		if item.Quant.Min() > 0 && !nullable {
			return set, false
		}
	}
	return set, true
}

func (t *Table) firstOfSymbol(name string) (syntax.TokenSet, bool) {
	if _, ok := t.rules[name]; ok {
		return t.first[name], t.nullable[name]
	}
	sym, _ := syntax.LookupSymbol(name)
	return syntax.NewTokenSet(sym), false
}

func (t *Table) buildOperators() error {
	for _, name := range t.order {
		r := t.rules[name]
		for _, alt := range r.Alternatives {
			if alt.Prec == 0 {
				continue
			}
			node, _ := syntax.LookupSymbol(r.Name)
			for i, item := range alt.Items {
				sym, ok := syntax.LookupSymbol(item.Symbol)
				if !ok || !sym.IsTerminal() || sym.IsNamed() {
					continue
				}
				op := Operator{Symbol: sym, Level: alt.Prec, Assoc: alt.Assoc, Node: node, Prefix: i == 0}
				if prev, dup := t.operators[sym]; dup && prev != op {
					return fmt.Errorf("operator %q declared twice with different precedence", item.Symbol)
				}
				t.operators[sym] = op
				break
			}
		}
	}
	return nil
}

func (t *Table) checkConflicts() error {
	declared := make(map[string]bool)
	for _, c := range t.conflicts {
		if _, ok := t.rules[c.Rule]; !ok {
			return fmt.Errorf("conflict declared for unknown rule %q", c.Rule)
		}
		if c.Kind != ConflictPrediction {
			continue
		}
		declared[conflictKey(c.Rule, c.Alternatives[0], c.Alternatives[1])] = true
	}

	found := make(map[string]bool)
	for _, name := range t.order {
		r := t.rules[name]
		alts := t.altFirst[name]
		for i := range alts {
			for j := i + 1; j < len(alts); j++ {
				overlap := alts[i].Intersect(alts[j])
				if overlap.IsEmpty() {
					continue
				}
				if r.Alternatives[i].Prec > 0 || r.Alternatives[j].Prec > 0 {
					continue
				}
				if !precedenceResolved(t, r, i, j) {
					key := conflictKey(name, i, j)
					if !declared[key] {
						return &ConflictError{Rule: name, Alternatives: [2]int{i, j}, Terminals: overlap}
					}
					found[key] = true
				}
			}
		}
	}

	for _, c := range t.conflicts {
		if c.Kind != ConflictPrediction {
			continue
		}
		if !found[conflictKey(c.Rule, c.Alternatives[0], c.Alternatives[1])] {
			return fmt.Errorf("declared conflict in %q between %d and %d does not occur",
				c.Rule, c.Alternatives[0], c.Alternatives[1])
		}
	}
	return nil
}

// precedenceResolved reports whether alternatives i and j of r each consist of
// a single rule whose productions all carry precedence tags, as the
// alternatives of _statement do.
func precedenceResolved(t *Table, r *Rule, i, j int) bool {
	return tagged(t, r.Alternatives[i]) || tagged(t, r.Alternatives[j])
}

func tagged(t *Table, alt Production) bool {
	if len(alt.Items) != 1 {
		return false
	}
	target, ok := t.rules[alt.Items[0].Symbol]
	if !ok {
		return false
	}
	for _, p := range target.Alternatives {
		if p.Prec == 0 {
			return false
		}
	}
	return len(target.Alternatives) > 0
}

func conflictKey(rule string, a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s/%d/%d", rule, a, b)
}

// Rule returns the rule with the given name.
func (t *Table) Rule(name string) (*Rule, bool) {
	r, ok := t.rules[name]
	return r, ok
}

// RuleNames returns rule names in declaration order.
func (t *Table) RuleNames() []string {
	return append([]string(nil), t.order...)
}

// First returns the terminals that can start name, which may be a rule or a
// terminal.
func (t *Table) First(name string) syntax.TokenSet {
	set, _ := t.firstOfSymbol(name)
	return set
}

// FirstOf returns the union of First over names.
func (t *Table) FirstOf(names ...string) syntax.TokenSet {
	var set syntax.TokenSet
	for _, name := range names {
		set = set.Union(t.First(name))
	}
	return set
}

// Nullable reports whether rule name can match the empty string.
func (t *Table) Nullable(name string) bool {
	return t.nullable[name]
}

// Predict returns the alternatives of rule name that can start with tok,
// preferred alternative first when a declared conflict applies.
// lookahead is the terminal after tok, or SymEnd when unknown.
func (t *Table) Predict(name string, tok, lookahead syntax.Symbol) []int {
	var alts []int
	for i, set := range t.altFirst[name] {
		if set.Has(tok) {
			alts = append(alts, i)
		}
	}
	if len(alts) < 2 {
		return alts
	}

	for _, c := range t.conflicts {
		if c.Kind != ConflictPrediction || c.Rule != name {
			continue
		}
		winner := c.Prefer
		if c.Lookahead != "" {
			if sym, _ := syntax.LookupSymbol(c.Lookahead); sym != lookahead {
				winner = c.Alternatives[0] + c.Alternatives[1] - c.Prefer
			}
		}
		alts = moveFirst(alts, winner)
	}
	return alts
}

func moveFirst(alts []int, winner int) []int {
	for i, alt := range alts {
		if alt == winner {
			copy(alts[1:i+1], alts[:i])
			alts[0] = winner
			break
		}
	}
	return alts
}

// Operator returns the precedence entry for an operator terminal.
func (t *Table) Operator(sym syntax.Symbol) (Operator, bool) {
	op, ok := t.operators[sym]
	return op, ok
}

// Operators returns every operator entry ordered by level, then symbol.
func (t *Table) Operators() []Operator {
	ops := make([]Operator, 0, len(t.operators))
	for _, op := range t.operators {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Level != ops[j].Level {
			return ops[i].Level < ops[j].Level
		}
		return ops[i].Symbol < ops[j].Symbol
	})
	return ops
}

// BinaryOperators returns the set of infix operator terminals.
func (t *Table) BinaryOperators() syntax.TokenSet {
	var set syntax.TokenSet
	for sym, op := range t.operators {
		if !op.Prefix {
			set = set.With(sym)
		}
	}
	return set
}

// Conflicts returns the declared conflicts.
func (t *Table) Conflicts() []Conflict {
	return append([]Conflict(nil), t.conflicts...)
}

// Catalog returns the node-type catalog derived from the rules.
func (t *Table) Catalog() Catalog {
	return t.catalog
}

// Describe renders a rule in a compact BNF-like notation.
func (t *Table) Describe(name string) string {
	r, ok := t.rules[name]
	if !ok {
		return ""
	}
	alts := make([]string, 0, len(r.Alternatives))
	for _, alt := range r.Alternatives {
		parts := make([]string, 0, len(alt.Items))
		for _, item := range alt.Items {
			part := item.Symbol
			if sym, ok := syntax.LookupSymbol(part); ok && sym.IsTerminal() && !sym.IsNamed() {
				part = sym.DisplayName()
			}
			if item.Field != "" {
				part = item.Field + ":" + part
			}
			switch item.Quant {
			case Opt:
				part += "?"
			case Many:
				part += "*"
			case Some:
				part += "+"
			}
			parts = append(parts, part)
		}
		text := strings.Join(parts, " ")
		if alt.Prec > 0 {
			text += fmt.Sprintf("  [prec %d %s]", alt.Prec, alt.Assoc)
		}
		alts = append(alts, text)
	}
	return name + " := " + strings.Join(alts, " | ")
}
