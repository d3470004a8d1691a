package search

import (
	"fmt"
	"strings"
)

// WhereSQL renders a clause list as one AND-composed SQL fragment with
// positional placeholders starting at $startArg. The fragment assumes the
// aliases of the search query: sections s, courses c, instructors i.
// An empty clause list yields an empty fragment.
func WhereSQL(clauses []Clause, startArg int) (string, []any) {
	if len(clauses) == 0 {
		return "", nil
	}

	b := &sqlBuilder{next: startArg}

	parts := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		parts = append(parts, b.render(clause))
	}

	return strings.Join(parts, " AND "), b.args
}

type sqlBuilder struct {
	args []any
	next int
}

func (b *sqlBuilder) placeholder(value any) string {
	b.args = append(b.args, value)
	p := fmt.Sprintf("$%d", b.next)
	b.next++
	return p
}

func (b *sqlBuilder) render(clause Clause) string {
	switch c := clause.(type) {
	case Compare:
		return fmt.Sprintf("%s %s %s", c.Column, c.Op, b.placeholder(c.Value))

	case Contains:
		return fmt.Sprintf("LOWER(%s) LIKE %s", c.Column, b.placeholder(likePattern(c.Value)))

	case Or:
		parts := make([]string, 0, len(c.Clauses))
		for _, inner := range c.Clauses {
			parts = append(parts, b.render(inner))
		}
		return "(" + strings.Join(parts, " OR ") + ")"

	case ScheduleExists:
		parts := make([]string, 0, len(c.Clauses))
		for _, inner := range c.Clauses {
			parts = append(parts, b.render(inner))
		}
		return "EXISTS (SELECT 1 FROM schedules sch" +
			" LEFT JOIN instructors si ON si.id = sch.instructor_id" +
			" WHERE sch.section_id = s.id AND " + strings.Join(parts, " AND ") + ")"

	default:
		// Unreachable as long as every Clause variant is handled above.
		panic(fmt.Sprintf("search: unknown clause type %T", clause))
	}
}

func likePattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}
