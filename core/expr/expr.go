// Package expr is the ticket filter language.
//
// Expressions are plain data: a tree of immutable nodes built with the
// functions of this package. A tree is turned into SQL only when it is
// processed against a Query, which resolves field names and registers the
// joins it needs. Nodes never hold per-query state, so one tree can be
// processed against any number of queries.
package expr

import (
	"fmt"
	"strings"
)

// Kind tags the variant of a node.
type Kind int

// Node variants.
const (
	KindField Kind = iota
	KindExtra
	KindValue
	KindAlways
	KindCount
	KindSum
	KindBinary
	KindNot
	KindIn
	KindIsNull
	KindInProjectUsers
)

var kindNames = map[Kind]string{
	KindField:          "field",
	KindExtra:          "extra",
	KindValue:          "value",
	KindAlways:         "always",
	KindCount:          "count",
	KindSum:            "sum",
	KindBinary:         "binary",
	KindNot:            "not",
	KindIn:             "in",
	KindIsNull:         "is_null",
	KindInProjectUsers: "in_project_users",
}

func (k Kind) String() string { return kindNames[k] }

// Op is a binary operator.
type Op string

// Binary operators.
const (
	OpAnd Op = "AND"
	OpOr  Op = "OR"
	OpEq  Op = "="
	OpNe  Op = "<>"
	OpLt  Op = "<"
	OpLe  Op = "<="
	OpGt  Op = ">"
	OpGe  Op = ">="
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
)

// Clause is a processed SQL fragment with its positional arguments.
// Placeholders are always written as "?"; the query rebinds them.
type Clause struct {
	SQL  string
	Args []any
}

// Query is the live state an expression is processed against.
type Query interface {
	// ResolveField returns the column expression of a ticket field,
	// registering any join it needs exactly once.
	ResolveField(name string) (string, error)
	// ResolveExtra returns the SQL expression of a computed attribute.
	ResolveExtra(name string) (string, error)
	// ProjectID returns the project the query is currently scoped to.
	ProjectID() (int64, bool)
	// ProjectUsers returns a subquery listing the usernames of a project team.
	ProjectUsers(projectID int64) (Clause, error)
}

// Node is one element of an expression tree.
type Node interface {
	Kind() Kind
	Process(q Query) (Clause, error)
}

// Compile-time checks
var (
	_ Node = FieldNode{}
	_ Node = ExtraNode{}
	_ Node = ValueNode{}
	_ Node = AlwaysNode{}
	_ Node = CountNode{}
	_ Node = SumNode{}
	_ Node = BinaryNode{}
	_ Node = NotNode{}
	_ Node = InNode{}
	_ Node = IsNullNode{}
	_ Node = InProjectUsersNode{}
)

// FieldNode references a ticket field.
type FieldNode struct{ Name string }

// Kind returns KindField.
func (FieldNode) Kind() Kind { return KindField }

// Process resolves the field column.
func (n FieldNode) Process(q Query) (Clause, error) {
	col, err := q.ResolveField(n.Name)
	if err != nil {
		return Clause{}, err
	}
	return Clause{SQL: col}, nil
}

// ExtraNode references a computed ticket attribute.
type ExtraNode struct{ Name string }

// Kind returns KindExtra.
func (ExtraNode) Kind() Kind { return KindExtra }

// Process resolves the attribute expression.
func (n ExtraNode) Process(q Query) (Clause, error) {
	sql, err := q.ResolveExtra(n.Name)
	if err != nil {
		return Clause{}, err
	}
	return Clause{SQL: sql}, nil
}

// ValueNode is a literal bound as a query argument.
type ValueNode struct{ Value any }

// Kind returns KindValue.
func (ValueNode) Kind() Kind { return KindValue }

// Process binds the literal.
func (n ValueNode) Process(Query) (Clause, error) {
	return Clause{SQL: "?", Args: []any{n.Value}}, nil
}

// AlwaysNode is a predicate that matches every row.
type AlwaysNode struct{}

// Kind returns KindAlways.
func (AlwaysNode) Kind() Kind { return KindAlways }

// Process returns a tautology.
func (AlwaysNode) Process(Query) (Clause, error) { return Clause{SQL: "1 = 1"}, nil }

// CountNode counts rows, or non-null values of Arg when set.
type CountNode struct{ Arg Node }

// Kind returns KindCount.
func (CountNode) Kind() Kind { return KindCount }

// Process renders COUNT.
func (n CountNode) Process(q Query) (Clause, error) {
	if n.Arg == nil {
		return Clause{SQL: "COUNT(*)"}, nil
	}
	return wrap(q, n.Arg, "COUNT(%s)")
}

// SumNode sums Arg, yielding 0 over an empty set.
type SumNode struct{ Arg Node }

// Kind returns KindSum.
func (SumNode) Kind() Kind { return KindSum }

// Process renders COALESCE(SUM(...), 0).
func (n SumNode) Process(q Query) (Clause, error) {
	return wrap(q, n.Arg, "COALESCE(SUM(%s), 0)")
}

// BinaryNode applies Op to two operands.
type BinaryNode struct {
	Op          Op
	Left, Right Node
}

// Kind returns KindBinary.
func (BinaryNode) Kind() Kind { return KindBinary }

// Process renders both operands and joins them with the operator.
func (n BinaryNode) Process(q Query) (Clause, error) {
	l, err := n.Left.Process(q)
	if err != nil {
		return Clause{}, err
	}
	r, err := n.Right.Process(q)
	if err != nil {
		return Clause{}, err
	}
	return Clause{
		SQL:  fmt.Sprintf("(%s %s %s)", l.SQL, n.Op, r.SQL),
		Args: append(append([]any{}, l.Args...), r.Args...),
	}, nil
}

// NotNode negates a predicate.
type NotNode struct{ Arg Node }

// Kind returns KindNot.
func (NotNode) Kind() Kind { return KindNot }

// Process renders NOT.
func (n NotNode) Process(q Query) (Clause, error) { return wrap(q, n.Arg, "(NOT %s)") }

// InNode tests membership in a literal list.
type InNode struct {
	Arg    Node
	Values []any
}

// Kind returns KindIn.
func (InNode) Kind() Kind { return KindIn }

// Process renders IN. An empty list matches nothing.
func (n InNode) Process(q Query) (Clause, error) {
	if len(n.Values) == 0 {
		return Clause{SQL: "(1 = 0)"}, nil
	}
	c, err := n.Arg.Process(q)
	if err != nil {
		return Clause{}, err
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(n.Values)), ", ")
	return Clause{
		SQL:  fmt.Sprintf("(%s IN (%s))", c.SQL, marks),
		Args: append(append([]any{}, c.Args...), n.Values...),
	}, nil
}

// IsNullNode tests for NULL.
type IsNullNode struct{ Arg Node }

// Kind returns KindIsNull.
func (IsNullNode) Kind() Kind { return KindIsNull }

// Process renders IS NULL.
func (n IsNullNode) Process(q Query) (Clause, error) { return wrap(q, n.Arg, "(%s IS NULL)") }

// InProjectUsersNode restricts Field to the team of the project the query is
// scoped to. The project is read when the node is processed.
type InProjectUsersNode struct {
	Field      Node
	AllowEmpty bool // NULL or empty values also match
}

// Kind returns KindInProjectUsers.
func (InProjectUsersNode) Kind() Kind { return KindInProjectUsers }

// Process expands to a membership test against the project team subquery.
func (n InProjectUsersNode) Process(q Query) (Clause, error) {
	pid, ok := q.ProjectID()
	if !ok {
		return Clause{}, missedProject()
	}
	f, err := n.Field.Process(q)
	if err != nil {
		return Clause{}, err
	}
	users, err := q.ProjectUsers(pid)
	if err != nil {
		return Clause{}, err
	}
	args := append(append([]any{}, f.Args...), users.Args...)
	sql := fmt.Sprintf("%s IN (%s)", f.SQL, users.SQL)
	if n.AllowEmpty {
		sql = fmt.Sprintf("%s OR %s IS NULL OR %s = ''", sql, f.SQL, f.SQL)
		args = append(append(args, f.Args...), f.Args...)
	}
	return Clause{SQL: "(" + sql + ")", Args: args}, nil
}

func wrap(q Query, arg Node, format string) (Clause, error) {
	c, err := arg.Process(q)
	if err != nil {
		return Clause{}, err
	}
	return Clause{SQL: fmt.Sprintf(format, c.SQL), Args: c.Args}, nil
}
