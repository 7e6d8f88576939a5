package expr

import "github.com/huangsam/gradepoint/schema"

// Field references a ticket field by name.
func Field(name string) Node { return FieldNode{Name: name} }

// Extra references a computed ticket attribute by name.
func Extra(name string) Node { return ExtraNode{Name: name} }

// Value wraps a literal.
func Value(v any) Node { return ValueNode{Value: v} }

// Always matches every row.
func Always() Node { return AlwaysNode{} }

// Count counts rows when n is nil, or non-null values of n.
func Count(n Node) Node { return CountNode{Arg: n} }

// Sum sums n.
func Sum(n Node) Node { return SumNode{Arg: n} }

// Not negates n.
func Not(n Node) Node { return NotNode{Arg: n} }

// IsNull tests n for NULL.
func IsNull(n Node) Node { return IsNullNode{Arg: n} }

// In tests n against a list of literals.
func In(n Node, values ...any) Node { return InNode{Arg: n, Values: values} }

// InProjectUsers restricts field to the members of the scoped project.
func InProjectUsers(field Node, allowEmpty bool) Node {
	return InProjectUsersNode{Field: field, AllowEmpty: allowEmpty}
}

// And combines predicates. No predicates match everything.
func And(nodes ...Node) Node { return fold(OpAnd, nodes) }

// Or combines predicates. No predicates match everything.
func Or(nodes ...Node) Node { return fold(OpOr, nodes) }

// Eq compares n to v. A nil v becomes an IS NULL test.
func Eq(n Node, v any) Node {
	if v == nil {
		return IsNull(n)
	}
	return BinaryNode{Op: OpEq, Left: n, Right: operand(v)}
}

// Ne compares n to v for inequality. A nil v becomes an IS NOT NULL test.
func Ne(n Node, v any) Node {
	if v == nil {
		return Not(IsNull(n))
	}
	return BinaryNode{Op: OpNe, Left: n, Right: operand(v)}
}

// Lt is n < v.
func Lt(n Node, v any) Node { return BinaryNode{Op: OpLt, Left: n, Right: operand(v)} }

// Le is n <= v.
func Le(n Node, v any) Node { return BinaryNode{Op: OpLe, Left: n, Right: operand(v)} }

// Gt is n > v.
func Gt(n Node, v any) Node { return BinaryNode{Op: OpGt, Left: n, Right: operand(v)} }

// Ge is n >= v.
func Ge(n Node, v any) Node { return BinaryNode{Op: OpGe, Left: n, Right: operand(v)} }

// Add is n + v.
func Add(n Node, v any) Node { return BinaryNode{Op: OpAdd, Left: n, Right: operand(v)} }

// Sub is n - v.
func Sub(n Node, v any) Node { return BinaryNode{Op: OpSub, Left: n, Right: operand(v)} }

// Mul is n * v.
func Mul(n Node, v any) Node { return BinaryNode{Op: OpMul, Left: n, Right: operand(v)} }

// Div is n / v.
func Div(n Node, v any) Node { return BinaryNode{Op: OpDiv, Left: n, Right: operand(v)} }

// Status is the ticket status field.
func Status() Node { return Field(schema.FieldStatus) }

// Resolution is the ticket resolution field.
func Resolution() Node { return Field(schema.FieldResolution) }

// Owner is the ticket owner field.
func Owner() Node { return Field(schema.FieldOwner) }

// Reporter is the ticket reporter field.
func Reporter() Node { return Field(schema.FieldReporter) }

// Milestone is the ticket milestone field.
func Milestone() Node { return Field(schema.FieldMilestone) }

// Severity is the ticket severity field.
func Severity() Node { return Field(schema.FieldSeverity) }

// TicketValue is the computed value of a ticket.
func TicketValue() Node { return Extra(schema.ExtraTicketValue) }

func operand(v any) Node {
	if n, ok := v.(Node); ok {
		return n
	}
	return Value(v)
}

func fold(op Op, nodes []Node) Node {
	if len(nodes) == 0 {
		return Always()
	}
	acc := nodes[0]
	for _, n := range nodes[1:] {
		acc = BinaryNode{Op: op, Left: acc, Right: n}
	}
	return acc
}

func missedProject() error {
	return schema.MissedQueryArguments("project team filter needs a project scoped query")
}
