package sqlsource

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/gradepoint/core/expr"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

// ticketColumns maps filterable ticket fields to columns of the ticket table.
var ticketColumns = map[string]string{
	"id":                   "t.id",
	"summary":              "t.summary",
	schema.FieldStatus:     "t.status",
	schema.FieldResolution: "t.resolution",
	schema.FieldOwner:      "t.owner",
	schema.FieldReporter:   "t.reporter",
	schema.FieldMilestone:  "t.milestone",
	schema.FieldType:       "t.type",
	schema.FieldPriority:   "t.priority",
	schema.FieldSeverity:   "t.severity",
}

// defaultTicketColumns are returned by Execute when Only was not called.
var defaultTicketColumns = []string{
	"id", "summary", schema.FieldType, schema.FieldPriority, schema.FieldSeverity,
	schema.FieldStatus, schema.FieldResolution, schema.FieldOwner, schema.FieldMilestone,
}

// customFieldName limits custom field names to safe identifiers.
var customFieldName = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// ticketQuery is a ticket aggregate query under construction.
// It implements expr.Query: custom fields are joined once per name.
type ticketQuery struct {
	scoped
	enums   schema.EnumMap
	filters []expr.Node
	cols    []string

	joins     []string
	joinArgs  []any
	joinAlias map[string]string
}

var (
	_ contract.TicketQuerySource = &ticketQuery{} // Compile-time check
	_ expr.Query                 = &ticketQuery{} // Compile-time check
)

func newTicketQuery(store *Store, enums schema.EnumMap) *ticketQuery {
	return &ticketQuery{scoped: scoped{store: store}, enums: enums, joinAlias: map[string]string{}}
}

// Where implements contract.TicketQuerySource.
func (q *ticketQuery) Where(node expr.Node) { q.filters = append(q.filters, node) }

// Only implements contract.TicketQuerySource.
func (q *ticketQuery) Only(cols ...string) { q.cols = append(q.cols[:0], cols...) }

// ResolveField implements expr.Query.
func (q *ticketQuery) ResolveField(name string) (string, error) {
	if col, ok := ticketColumns[name]; ok {
		return col, nil
	}
	if alias, ok := q.joinAlias[name]; ok {
		return alias + ".value", nil
	}
	if !customFieldName.MatchString(name) {
		return "", fmt.Errorf("invalid ticket field %q", name)
	}
	alias := fmt.Sprintf("tc%d", len(q.joins))
	q.joins = append(q.joins, fmt.Sprintf("LEFT JOIN ticket_custom %s ON %s.ticket = t.id AND %s.name = ?", alias, alias, alias))
	q.joinArgs = append(q.joinArgs, name)
	q.joinAlias[name] = alias
	return alias + ".value", nil
}

// ResolveExtra implements expr.Query.
func (q *ticketQuery) ResolveExtra(name string) (string, error) {
	switch name {
	case schema.ExtraTicketValue:
		modifier, err := q.ResolveField(schema.CustomModifier)
		if err != nil {
			return "", err
		}
		return ticketValueSQL(q.store.backend, q.enums, modifier), nil
	default:
		return "", fmt.Errorf("unknown ticket attribute %q", name)
	}
}

// ProjectID implements expr.Query.
func (q *ticketQuery) ProjectID() (int64, bool) {
	return q.Scope.ProjectID, q.Scope.ProjectID != 0
}

// ProjectUsers implements expr.Query.
func (q *ticketQuery) ProjectUsers(projectID int64) (expr.Clause, error) {
	return expr.Clause{SQL: "SELECT tm.username FROM team_member tm WHERE tm.project_id = ?", Args: []any{projectID}}, nil
}

// Count implements contract.TicketQuerySource.
func (q *ticketQuery) Count(ctx context.Context) (int64, error) {
	query, args, err := q.build(ctx, []expr.Node{expr.Count(nil)})
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.store.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return n, nil
}

// Sum implements contract.TicketQuerySource.
func (q *ticketQuery) Sum(ctx context.Context, node expr.Node) (float64, error) {
	query, args, err := q.build(ctx, []expr.Node{expr.Sum(node)})
	if err != nil {
		return 0, err
	}
	var total float64
	if err := q.store.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to sum tickets: %w", err)
	}
	return total, nil
}

// Execute implements contract.TicketQuerySource.
func (q *ticketQuery) Execute(ctx context.Context) ([]schema.TicketRow, error) {
	cols := q.cols
	if len(cols) == 0 {
		cols = defaultTicketColumns
	}
	nodes := make([]expr.Node, 0, len(cols))
	for _, c := range cols {
		if c == schema.ExtraTicketValue {
			nodes = append(nodes, expr.Extra(c))
			continue
		}
		nodes = append(nodes, expr.Field(c))
	}
	query, args, err := q.build(ctx, nodes)
	if err != nil {
		return nil, err
	}

	rows, err := q.store.db.QueryxContext(ctx, query+" ORDER BY t.id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.TicketRow
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		row := make(schema.TicketRow, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// build renders SELECT <selects> FROM ticket with joins, scope and filters.
// Selects are processed first so their joins are known before FROM is written.
func (q *ticketQuery) build(ctx context.Context, selects []expr.Node) (string, []any, error) {
	var selSQL []string
	var selArgs []any
	for _, n := range selects {
		c, err := n.Process(q)
		if err != nil {
			return "", nil, err
		}
		selSQL = append(selSQL, c.SQL)
		selArgs = append(selArgs, c.Args...)
	}

	areaSQL, areaArgs, err := q.areaFilter(ctx, "t.project_id")
	if err != nil {
		return "", nil, err
	}
	conds := []string{areaSQL}
	whereArgs := append([]any{}, areaArgs...)
	if q.Scope.Area == schema.AreaUser {
		conds = append(conds, "t.owner = ?")
		whereArgs = append(whereArgs, q.Scope.Username)
	}
	if q.Scope.Milestone != "" {
		conds = append(conds, "t.milestone = ?")
		whereArgs = append(whereArgs, q.Scope.Milestone)
	}
	for _, f := range q.filters {
		c, err := f.Process(q)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, c.SQL)
		whereArgs = append(whereArgs, c.Args...)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selSQL, ", "))
	b.WriteString(" FROM ticket t")
	for _, j := range q.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(conds, " AND "))

	args := make([]any, 0, len(selArgs)+len(q.joinArgs)+len(whereArgs))
	args = append(args, selArgs...)
	args = append(args, q.joinArgs...)
	args = append(args, whereArgs...)
	return q.store.db.Rebind(b.String()), args, nil
}

// ticketValueSQL renders type * (priority * severity + modifier), floored at 0 and rounded.
// Enum weights are inlined as literals so the expression carries no arguments.
func ticketValueSQL(backend schema.DatabaseBackend, enums schema.EnumMap, modifierCol string) string {
	modifier := fmt.Sprintf("COALESCE(CAST(NULLIF(%s, '') AS %s), 0)", modifierCol, numericType(backend))
	raw := fmt.Sprintf("(%s * (%s * %s + %s))",
		enumCase(enums, schema.EnumType, "t.type"),
		enumCase(enums, schema.EnumPriority, "t.priority"),
		enumCase(enums, schema.EnumSeverity, "t.severity"),
		modifier,
	)
	floored := fmt.Sprintf("CASE WHEN %s < 0 THEN 0 ELSE %s END", raw, raw)
	if backend == schema.PostgreSQLBackend {
		// round(double precision) rounds half to even; numeric rounds half away from zero.
		return fmt.Sprintf("ROUND(CAST(%s AS NUMERIC))", floored)
	}
	return fmt.Sprintf("ROUND(%s)", floored)
}

// enumCase renders a CASE mapping a ticket column to its enum weight.
func enumCase(enums schema.EnumMap, enumType, col string) string {
	def := strconv.FormatFloat(enums.Value(enumType, ""), 'f', -1, 64)
	mapping := enums[enumType]
	names := mapping.Names()
	if len(names) == 0 {
		return def
	}
	var b strings.Builder
	fmt.Fprintf(&b, "(CASE LOWER(COALESCE(%s, ''))", col)
	for _, name := range names {
		w, _ := mapping.Lookup(name)
		fmt.Fprintf(&b, " WHEN %s THEN %s", quoteLiteral(name), strconv.FormatFloat(w, 'f', -1, 64))
	}
	fmt.Fprintf(&b, " ELSE %s END)", def)
	return b.String()
}

func numericType(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "DECIMAL(12,4)"
	case schema.PostgreSQLBackend:
		return "NUMERIC"
	default:
		return "REAL"
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
