package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/TechXTT/sqlcrud/pkg/shell"
)

func NewShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive menu",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
}

func runShell(cmd *cobra.Command, args []string) (err error) {
	sess, _, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	prompter := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	defer prompter.Close()

	return shell.New(sess, prompter, cmd.OutOrStdout()).Run(cmd.Context())
}

type closingPrompter interface {
	shell.Prompter
	io.Closer
}

// newPrompter uses line editing on a terminal and plain line reads for
// pipes and redirected files.
func newPrompter(in io.Reader, out io.Writer) closingPrompter {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return shell.NewLinePrompter()
	}
	return shell.NewReaderPrompter(in, out)
}
