package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/TechXTT/sqlcrud/internal/core"
	"github.com/TechXTT/sqlcrud/pkg/runtime"
)

// Session is the part of *runtime.Session the shell drives.
type Session interface {
	ListDatabases(ctx context.Context) ([]string, error)
	UseDatabase(ctx context.Context, name string) (string, error)
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, table string) ([]string, error)
	CreateDatabase(ctx context.Context, name string) error
	CreateTable(ctx context.Context, database, table string, defs []core.ColumnDef) error
	Insert(ctx context.Context, table string, columns []core.Ident, values []interface{}) (int64, error)
	Select(ctx context.Context, table string, columns []core.Ident, where core.Condition) (*runtime.ResultSet, error)
	Update(ctx context.Context, table string, set []core.Assignment, where core.Condition) (int64, error)
	Delete(ctx context.Context, table string, where core.Condition) (int64, error)
	DropDatabase(ctx context.Context, name string) error
}

const menu = `
Select an operation:
1. Create Database
2. Create Table
3. Insert Data
4. Update Data
5. Delete Entry
6. Delete Database
7. Show Data
8. Exit
`

// Shell is the numbered-menu loop. It never closes the session; whoever
// opened it does.
type Shell struct {
	session Session
	prompt  Prompter
	out     io.Writer
	errs    *color.Color
}

func New(session Session, prompt Prompter, out io.Writer) *Shell {
	return &Shell{
		session: session,
		prompt:  prompt,
		out:     out,
		errs:    color.New(color.FgRed),
	}
}

// Run loops until the user picks 8, input ends or ctx is cancelled.
func (sh *Shell) Run(ctx context.Context) error {
	actions := map[string]func(context.Context) error{
		"1": sh.createDatabase,
		"2": sh.createTable,
		"3": sh.insert,
		"4": sh.update,
		"5": sh.deleteEntry,
		"6": sh.deleteDatabase,
		"7": sh.showData,
	}
	for {
		if err := ctx.Err(); err != nil {
			return sh.stop(err)
		}
		fmt.Fprint(sh.out, menu)
		choice, err := sh.prompt.Prompt("Enter your choice (1-8): ")
		if err != nil {
			return sh.stop(err)
		}
		choice = strings.TrimSpace(choice)
		if choice == "8" {
			fmt.Fprintln(sh.out, "Goodbye!")
			return nil
		}
		action, ok := actions[choice]
		if !ok {
			sh.errs.Fprintln(sh.out, "Invalid choice. Please try again.")
			continue
		}
		if err := action(ctx); err != nil {
			return sh.stop(err)
		}
	}
}

// stop ends the loop. End of input and cancellation are normal exits.
func (sh *Shell) stop(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(sh.out, "\nGoodbye!")
		return nil
	}
	return err
}

func (sh *Shell) createDatabase(ctx context.Context) error {
	sh.showDatabases(ctx)
	name, err := sh.ask("Enter database name: ")
	if err != nil {
		return err
	}
	if err := sh.session.CreateDatabase(ctx, name); err != nil {
		sh.printErr(err)
		return nil
	}
	fmt.Fprintf(sh.out, "Database '%s' created successfully.\n", name)
	return nil
}

func (sh *Shell) createTable(ctx context.Context) error {
	db, ok, err := sh.chooseDatabase(ctx)
	if err != nil || !ok {
		return err
	}
	sh.showTables(ctx)
	table, err := sh.ask("Enter table name: ")
	if err != nil {
		return err
	}
	structure, err := sh.ask("Enter table structure (e.g., id INT PRIMARY KEY, name VARCHAR(255)): ")
	if err != nil {
		return err
	}
	defs, err := core.ParseColumnDefs(structure)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	if err := sh.session.CreateTable(ctx, db, table, defs); err != nil {
		sh.printErr(err)
		return nil
	}
	fmt.Fprintf(sh.out, "Table '%s' created successfully in database '%s'.\n", table, db)
	return nil
}

func (sh *Shell) insert(ctx context.Context) error {
	table, ok, err := sh.chooseTable(ctx)
	if err != nil || !ok {
		return err
	}
	colsIn, err := sh.ask("Enter columns (comma-separated e.g., id,name): ")
	if err != nil {
		return err
	}
	valsIn, err := sh.ask("Enter values (comma-separated e.g., 1,'shiv'): ")
	if err != nil {
		return err
	}
	cols, err := core.ParseColumnList(colsIn)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	vals, err := core.ParseValues(valsIn)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	n, err := sh.session.Insert(ctx, table, cols, vals)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	fmt.Fprintf(sh.out, "Data inserted into '%s' successfully. (%d row(s) affected)\n", table, n)
	return nil
}

func (sh *Shell) update(ctx context.Context) error {
	table, ok, err := sh.chooseTable(ctx)
	if err != nil || !ok {
		return err
	}
	setIn, err := sh.ask("Enter the update statement (e.g., name = 'John'): ")
	if err != nil {
		return err
	}
	condIn, err := sh.ask("Enter the condition (e.g., id = 1): ")
	if err != nil {
		return err
	}
	set, err := core.ParseAssignments(setIn)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	cond, err := core.ParseCondition(condIn)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	n, err := sh.session.Update(ctx, table, set, cond)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	fmt.Fprintf(sh.out, "Data updated in '%s' successfully. (%d row(s) affected)\n", table, n)
	return nil
}

func (sh *Shell) deleteEntry(ctx context.Context) error {
	table, ok, err := sh.chooseTable(ctx)
	if err != nil || !ok {
		return err
	}
	condIn, err := sh.ask("Enter the condition (e.g., id = 1): ")
	if err != nil {
		return err
	}
	cond, err := core.ParseCondition(condIn)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	n, err := sh.session.Delete(ctx, table, cond)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	fmt.Fprintf(sh.out, "Entry deleted from '%s' successfully. (%d row(s) affected)\n", table, n)
	return nil
}

func (sh *Shell) deleteDatabase(ctx context.Context) error {
	sh.showDatabases(ctx)
	name, err := sh.ask("Enter database name: ")
	if err != nil {
		return err
	}
	if err := sh.session.DropDatabase(ctx, name); err != nil {
		sh.printErr(err)
		return nil
	}
	fmt.Fprintf(sh.out, "Database '%s' deleted successfully.\n", name)
	return nil
}

func (sh *Shell) showData(ctx context.Context) error {
	table, ok, err := sh.chooseTable(ctx)
	if err != nil || !ok {
		return err
	}
	colsIn, err := sh.ask("Enter columns to show (comma-separated or '*' for all): ")
	if err != nil {
		return err
	}
	cols, err := core.ParseColumnList(colsIn)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	rs, err := sh.session.Select(ctx, table, cols, nil)
	if err != nil {
		sh.printErr(err)
		return nil
	}
	fmt.Fprintln(sh.out, "Selected Data:")
	RenderResult(sh.out, rs)
	return nil
}

// chooseDatabase lists databases, asks for one and switches to it.
// ok is false when the switch failed and the iteration should abort.
func (sh *Shell) chooseDatabase(ctx context.Context) (string, bool, error) {
	sh.showDatabases(ctx)
	name, err := sh.ask("Enter database name: ")
	if err != nil {
		return "", false, err
	}
	msg, err := sh.session.UseDatabase(ctx, name)
	if err != nil {
		sh.printErr(err)
		return "", false, nil
	}
	fmt.Fprintln(sh.out, msg)
	return name, true, nil
}

// chooseTable runs chooseDatabase, then asks for a table and shows its
// columns. A table without columns does not exist, so ok is false.
func (sh *Shell) chooseTable(ctx context.Context) (string, bool, error) {
	if _, ok, err := sh.chooseDatabase(ctx); err != nil || !ok {
		return "", false, err
	}
	sh.showTables(ctx)
	table, err := sh.ask("Enter table name: ")
	if err != nil {
		return "", false, err
	}
	cols, err := sh.session.ListColumns(ctx, table)
	if err != nil {
		sh.printErr(err)
		return "", false, nil
	}
	if len(cols) == 0 {
		sh.errs.Fprintf(sh.out, "Table '%s' not found.\n", table)
		return "", false, nil
	}
	fmt.Fprintln(sh.out, "Existing columns are:", formatNames(cols))
	return table, true, nil
}

func (sh *Shell) showDatabases(ctx context.Context) {
	names, err := sh.session.ListDatabases(ctx)
	if err != nil {
		sh.printErr(err)
		return
	}
	fmt.Fprintln(sh.out, "Existing Databases:", formatNames(names))
}

func (sh *Shell) showTables(ctx context.Context) {
	names, err := sh.session.ListTables(ctx)
	if err != nil {
		sh.printErr(err)
		return
	}
	fmt.Fprintln(sh.out, "Existing tables are:", formatNames(names))
}

func (sh *Shell) ask(label string) (string, error) {
	line, err := sh.prompt.Prompt(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (sh *Shell) printErr(err error) {
	var opErr *runtime.OpError
	if errors.As(err, &opErr) {
		sh.errs.Fprintf(sh.out, "Error %s: %v\n", opErr.Op, opErr.Err)
		return
	}
	sh.errs.Fprintf(sh.out, "Invalid input: %v\n", err)
}
