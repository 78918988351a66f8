// File: internal/core/builder.go
package core

import (
	"fmt"
	"strings"
)

// Each Build* function assembles one statement and its bound arguments.
// Names are quoted by the dialect, values only ever travel as arguments.

func BuildCreateDatabase(d Dialect, db Ident) string {
	return "CREATE DATABASE " + d.Quote(db)
}

func BuildDropDatabase(d Dialect, db Ident) string {
	return "DROP DATABASE " + d.Quote(db)
}

func BuildDropTable(d Dialect, table Ident) string {
	return "DROP TABLE IF EXISTS " + d.Quote(table)
}

// BuildCreateTable renders "CREATE TABLE t (col TYPE constraints, ...)".
func BuildCreateTable(d Dialect, table Ident, defs []ColumnDef) (string, error) {
	if len(defs) == 0 {
		return "", ErrNoColumns
	}
	cols := make([]string, 0, len(defs))
	for _, def := range defs {
		parts := []string{d.Quote(def.Name), def.Type}
		parts = append(parts, def.Constraints...)
		cols = append(cols, strings.Join(parts, " "))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.Quote(table), strings.Join(cols, ", ")), nil
}

func BuildInsert(d Dialect, table Ident, cols []Ident, vals []interface{}) (string, []interface{}, error) {
	if len(cols) == 0 {
		return "", nil, ErrNoColumns
	}
	if len(cols) != len(vals) {
		return "", nil, fmt.Errorf("%w: %d columns, %d values", ErrColumnMismatch, len(cols), len(vals))
	}
	holders := make([]string, len(vals))
	for i := range vals {
		holders[i] = d.Placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(table), quoteAll(d, cols), strings.Join(holders, ", "))
	return query, vals, nil
}

// BuildSelect selects every column when cols is empty and every row when
// where is empty.
func BuildSelect(d Dialect, table Ident, cols []Ident, where Condition) (string, []interface{}) {
	parts := []string{"SELECT"}
	if len(cols) > 0 {
		parts = append(parts, quoteAll(d, cols))
	} else {
		parts = append(parts, "*")
	}
	parts = append(parts, "FROM", d.Quote(table))
	var args []interface{}
	if len(where) > 0 {
		clause, whereArgs := buildWhere(d, where, 1)
		parts = append(parts, "WHERE", clause)
		args = whereArgs
	}
	return strings.Join(parts, " "), args
}

func BuildUpdate(d Dialect, table Ident, set []Assignment, where Condition) (string, []interface{}, error) {
	if len(set) == 0 {
		return "", nil, ErrNoColumns
	}
	if len(where) == 0 {
		return "", nil, ErrEmptyCondition
	}
	assigns := make([]string, 0, len(set))
	args := make([]interface{}, 0, len(set)+len(where))
	for i, a := range set {
		assigns = append(assigns, d.Quote(a.Column)+" = "+d.Placeholder(i+1))
		args = append(args, a.Value)
	}
	clause, whereArgs := buildWhere(d, where, len(set)+1)
	args = append(args, whereArgs...)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", d.Quote(table), strings.Join(assigns, ", "), clause)
	return query, args, nil
}

func BuildDelete(d Dialect, table Ident, where Condition) (string, []interface{}, error) {
	if len(where) == 0 {
		return "", nil, ErrEmptyCondition
	}
	clause, args := buildWhere(d, where, 1)
	return fmt.Sprintf("DELETE FROM %s WHERE %s", d.Quote(table), clause), args, nil
}

func buildWhere(d Dialect, where Condition, first int) (string, []interface{}) {
	ops := make([]string, 0, len(where))
	args := make([]interface{}, 0, len(where))
	n := first
	for _, p := range where {
		if p.Value == nil {
			// NULL never compares equal, so "= NULL" becomes IS NULL.
			if p.Op == "=" {
				ops = append(ops, d.Quote(p.Column)+" IS NULL")
				continue
			}
			if p.Op == "<>" || p.Op == "!=" {
				ops = append(ops, d.Quote(p.Column)+" IS NOT NULL")
				continue
			}
		}
		op := p.Op
		if op == "!=" {
			op = "<>"
		}
		ops = append(ops, d.Quote(p.Column)+" "+op+" "+d.Placeholder(n))
		args = append(args, p.Value)
		n++
	}
	return strings.Join(ops, " AND "), args
}

func quoteAll(d Dialect, ids []Ident) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = d.Quote(id)
	}
	return strings.Join(quoted, ", ")
}
