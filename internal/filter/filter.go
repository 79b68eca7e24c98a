// Package filter compiles user supplied catalog filters into SQL predicate
// fragments for a specific engine.
//
// Operands are interpolated without escaping. Filters come from the
// documentation author's configuration and must never carry external input.
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Op is a filter operator kind as written in configuration.
type Op string

const (
	Equals          Op = "eq"
	NotEquals       Op = "not_eq"
	InSet           Op = "in"
	NotInSet        Op = "not_in"
	MatchesRegex    Op = "regex"
	NotMatchesRegex Op = "not_regex"
)

// Ops lists the recognized operator kinds.
var Ops = []Op{Equals, NotEquals, InSet, NotInSet, MatchesRegex, NotMatchesRegex}

// Logical field names shared by every engine's field tables.
const (
	FieldSchema    = "schema"
	FieldTableName = "table_name"
)

// ErrInvalidOperand is returned when an operand cannot be rendered for its operator.
var ErrInvalidOperand = errors.New("invalid filter operand")

// Term is one field/operand pair under an operator.
type Term struct {
	Field   string
	Operand any
}

// Group holds the terms of one operator in input order.
type Group struct {
	Op    Op
	Terms []Term
}

// Spec is an ordered mapping operator → field → operand. Operand values are
// strings, numbers, bools or []any lists of those.
type Spec struct {
	Groups []Group
}

// Add appends a term, creating the operator group on first use.
func (s *Spec) Add(op Op, field string, operand any) *Spec {
	for i := range s.Groups {
		if s.Groups[i].Op == op {
			s.Groups[i].Terms = append(s.Groups[i].Terms, Term{Field: field, Operand: operand})
			return s
		}
	}
	s.Groups = append(s.Groups, Group{Op: op, Terms: []Term{{Field: field, Operand: operand}}})
	return s
}

// Empty reports whether the spec has no terms.
func (s *Spec) Empty() bool {
	if s == nil {
		return true
	}
	for _, g := range s.Groups {
		if len(g.Terms) > 0 {
			return false
		}
	}
	return true
}

// UnmarshalYAML decodes a mapping of mappings keeping document order.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("filters: expected a mapping, got %s", kindName(node))
	}

	s.Groups = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		op := Op(node.Content[i].Value)
		fields := node.Content[i+1]
		if fields.Kind != yaml.MappingNode {
			return fmt.Errorf("filters.%s: expected a mapping of field to value, got %s", op, kindName(fields))
		}
		group := Group{Op: op}
		for j := 0; j+1 < len(fields.Content); j += 2 {
			var operand any
			if err := fields.Content[j+1].Decode(&operand); err != nil {
				return fmt.Errorf("filters.%s.%s: %w", op, fields.Content[j].Value, err)
			}
			group.Terms = append(group.Terms, Term{Field: fields.Content[j].Value, Operand: operand})
		}
		s.Groups = append(s.Groups, group)
	}
	return nil
}

// MarshalYAML writes the spec back as an ordered mapping.
func (s Spec) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, g := range s.Groups {
		fields := &yaml.Node{Kind: yaml.MappingNode}
		for _, t := range g.Terms {
			val := &yaml.Node{}
			if err := val.Encode(t.Operand); err != nil {
				return nil, err
			}
			fields.Content = append(fields.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: t.Field}, val)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: string(g.Op)}, fields)
	}
	return root, nil
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "node"
	}
}

// RegexStyle selects where an engine places the field in a regex predicate.
type RegexStyle int

const (
	// RegexUnsupported drops regex terms silently.
	RegexUnsupported RegexStyle = iota
	// RegexInfix prepends the field before an operator: field ~ 'x'.
	RegexInfix
	// RegexFunc places the field inside a call: REGEXP_LIKE(field, 'x').
	RegexFunc
)

// Dialect is the engine specific part of predicate rendering.
type Dialect struct {
	Name string

	Regex RegexStyle
	// Infix operators, used with RegexInfix.
	Match    string
	NotMatch string
	// Function name, used with RegexFunc. The negated form is NOT <Func>(...).
	Func string
}

// Fields maps logical field names to physical column expressions for one query.
type Fields map[string]string

// Compile renders the spec into zero or more "AND <predicate>\n" clauses.
// Unknown operators and fields missing from fields are skipped, as are regex
// terms on dialects without regex support.
func Compile(spec *Spec, fields Fields, d Dialect) (string, error) {
	if spec.Empty() || len(fields) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, g := range spec.Groups {
		if !g.Op.known() {
			continue
		}
		for _, t := range g.Terms {
			column, ok := fields[t.Field]
			if !ok {
				continue
			}
			pred, ok, err := predicate(g.Op, column, t.Operand, d)
			if err != nil {
				return "", fmt.Errorf("%s filter on %s: %w", g.Op, t.Field, err)
			}
			if !ok {
				continue
			}
			b.WriteString("AND ")
			b.WriteString(pred)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func (o Op) known() bool {
	for _, k := range Ops {
		if o == k {
			return true
		}
	}
	return false
}

func predicate(op Op, field string, operand any, d Dialect) (string, bool, error) {
	switch op {
	case Equals:
		v, err := literal(operand)
		if err != nil {
			return "", false, err
		}
		return field + " = " + v, true, nil
	case NotEquals:
		v, err := literal(operand)
		if err != nil {
			return "", false, err
		}
		return field + " != " + v, true, nil
	case InSet, NotInSet:
		list, err := literalList(operand)
		if err != nil {
			return "", false, err
		}
		kw := "IN"
		if op == NotInSet {
			kw = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", field, kw, list), true, nil
	case MatchesRegex, NotMatchesRegex:
		pattern, err := regexOperand(operand)
		if err != nil {
			return "", false, err
		}
		return regex(d, field, pattern, op == NotMatchesRegex)
	}
	return "", false, nil
}

func regex(d Dialect, field, pattern string, negate bool) (string, bool, error) {
	switch d.Regex {
	case RegexInfix:
		opr := d.Match
		if negate {
			opr = d.NotMatch
		}
		return fmt.Sprintf("%s %s '%s'", field, opr, pattern), true, nil
	case RegexFunc:
		call := fmt.Sprintf("%s(%s, '%s')", d.Func, field, pattern)
		if negate {
			call = "NOT " + call
		}
		return call, true, nil
	default:
		return "", false, nil
	}
}

// literal renders a scalar: strings quoted, numbers and bools bare.
func literal(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return "'" + x + "'", nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	case nil:
		return "", fmt.Errorf("%w: value is empty", ErrInvalidOperand)
	default:
		return "", fmt.Errorf("%w: unsupported value %v (%T)", ErrInvalidOperand, v, v)
	}
}

func literalList(v any) (string, error) {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case []string:
		for _, s := range x {
			items = append(items, s)
		}
	default:
		items = []any{x}
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%w: list must not be empty", ErrInvalidOperand)
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		lit, err := literal(item)
		if err != nil {
			return "", err
		}
		parts = append(parts, lit)
	}
	return strings.Join(parts, ", "), nil
}

func regexOperand(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case nil:
		return "", fmt.Errorf("%w: pattern is empty", ErrInvalidOperand)
	default:
		return fmt.Sprint(x), nil
	}
}
