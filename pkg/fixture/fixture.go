// Package fixture seeds and exercises one fixed table, step by step, the
// way a demonstration script would.
package fixture

import (
	"context"
	"fmt"
	"io"

	"github.com/TechXTT/sqlcrud/internal/core"
	"github.com/TechXTT/sqlcrud/pkg/runtime"
	"github.com/TechXTT/sqlcrud/pkg/shell"
)

const (
	DefaultDatabase = "school"
	Table           = "students"
)

// Session is the part of *runtime.Session the fixture drives.
type Session interface {
	UseDatabase(ctx context.Context, name string) (string, error)
	DropTable(ctx context.Context, table string) error
	CreateTable(ctx context.Context, database, table string, defs []core.ColumnDef) error
	Insert(ctx context.Context, table string, columns []core.Ident, values []interface{}) (int64, error)
	Select(ctx context.Context, table string, columns []core.Ident, where core.Condition) (*runtime.ResultSet, error)
	Update(ctx context.Context, table string, set []core.Assignment, where core.Condition) (int64, error)
	Delete(ctx context.Context, table string, where core.Condition) (int64, error)
}

var (
	schema = []core.ColumnDef{
		{Name: "StudentID", Type: "INT", Constraints: []string{"PRIMARY", "KEY"}},
		{Name: "FirstName", Type: "VARCHAR(50)"},
		{Name: "LastName", Type: "VARCHAR(50)"},
		{Name: "Age", Type: "INT"},
	}
	columns = []core.Ident{"StudentID", "FirstName", "LastName", "Age"}
	seed    = [][]interface{}{
		{int64(1), "Shiv", "Yelave", int64(22)},
		{int64(2), "Dev", "Patil", int64(23)},
		{int64(3), "Asha", "Rao", int64(21)},
	}
)

type query struct {
	title   string
	columns []core.Ident
	where   core.Condition
}

var queries = []query{
	{title: "All students"},
	{title: "Names and ages", columns: []core.Ident{"FirstName", "Age"}},
	{title: "Students older than 21", where: core.Condition{{Column: "Age", Op: ">", Value: int64(21)}}},
}

type update struct {
	set   []core.Assignment
	where core.Condition
}

var updates = []update{
	{
		set:   []core.Assignment{{Column: "Age", Value: int64(24)}},
		where: core.Condition{{Column: "StudentID", Op: "=", Value: int64(1)}},
	},
	{
		set:   []core.Assignment{{Column: "LastName", Value: "Sharma"}},
		where: core.Condition{{Column: "FirstName", Op: "=", Value: "Dev"}},
	},
}

var deletion = core.Condition{{Column: "StudentID", Op: "=", Value: int64(3)}}

// Run executes every step in order against database. A failing step is
// reported and the run moves on; Run returns the number of failed steps.
func Run(ctx context.Context, s Session, database string, out io.Writer) int {
	r := &runner{out: out}

	r.step("use database", func() (string, error) {
		return s.UseDatabase(ctx, database)
	})
	r.step("drop table", func() (string, error) {
		return fmt.Sprintf("Table '%s' dropped if it existed.", Table), s.DropTable(ctx, Table)
	})
	r.step("create table", func() (string, error) {
		return fmt.Sprintf("Table '%s' created.", Table), s.CreateTable(ctx, database, Table, schema)
	})
	for _, row := range seed {
		r.step("insert", func() (string, error) {
			n, err := s.Insert(ctx, Table, columns, row)
			return fmt.Sprintf("Inserted %v (%d row(s)).", row, n), err
		})
	}
	for _, q := range queries {
		r.step("select", func() (string, error) {
			rs, err := s.Select(ctx, Table, q.columns, q.where)
			if err != nil {
				return "", err
			}
			fmt.Fprintln(out, q.title+":")
			shell.RenderResult(out, rs)
			return "", nil
		})
	}
	for _, u := range updates {
		r.step("update", func() (string, error) {
			n, err := s.Update(ctx, Table, u.set, u.where)
			return fmt.Sprintf("Updated %d row(s).", n), err
		})
	}
	r.step("delete", func() (string, error) {
		n, err := s.Delete(ctx, Table, deletion)
		return fmt.Sprintf("Deleted %d row(s).", n), err
	})
	return r.failed
}

type runner struct {
	out    io.Writer
	failed int
}

func (r *runner) step(name string, fn func() (string, error)) {
	msg, err := fn()
	if err != nil {
		r.failed++
		fmt.Fprintf(r.out, "%s failed: %v\n", name, err)
		return
	}
	if msg != "" {
		fmt.Fprintln(r.out, msg)
	}
}
