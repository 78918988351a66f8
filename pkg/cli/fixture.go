package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TechXTT/sqlcrud/pkg/fixture"
)

func NewFixtureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixture",
		Short: "Recreate and exercise the students table",
		Long: `Drops and recreates the students table in the configured database
(school when --database is not set), seeds three rows, runs three queries,
two updates and one delete, printing each step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			sess, cfg, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := sess.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			database := cfg.Database
			if database == "" {
				database = fixture.DefaultDatabase
			}
			out := cmd.OutOrStdout()
			if failed := fixture.Run(cmd.Context(), sess, database, out); failed > 0 {
				fmt.Fprintf(out, "%d step(s) failed\n", failed)
			}
			return nil
		},
	}
}
