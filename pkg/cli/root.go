package cli

import (
	"fmt"
	"io"

	"code.cloudfoundry.org/lager/v3"
	"github.com/spf13/cobra"

	"github.com/TechXTT/sqlcrud/pkg/config"
	"github.com/TechXTT/sqlcrud/pkg/runtime"
)

func version() string {
	return "v1.0.0"
}

var logLevels = map[string]lager.LogLevel{
	"DEBUG": lager.DEBUG,
	"INFO":  lager.INFO,
	"ERROR": lager.ERROR,
	"FATAL": lager.FATAL,
}

func buildLogger(logLevel string, w io.Writer) lager.Logger {
	level, ok := logLevels[logLevel]
	if !ok {
		level = lager.ERROR
	}
	logger := lager.NewLogger("sqlcrud")
	logger.RegisterSink(lager.NewWriterSink(w, level))
	return logger
}

// connect opens the session for a loaded configuration.
var connect = runtime.Open

// openSession loads the configuration from the command's flags and
// connects. Configuration and connection failures end the command.
func openSession(cmd *cobra.Command) (*runtime.Session, *config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile, cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := buildLogger(cfg.LogLevel, cmd.ErrOrStderr())

	sess, err := connect(cmd.Context(), *cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.Host, err)
	}
	return sess, cfg, nil
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}

// NewRootCmd builds the top-level `sqlcrud` command. Without a subcommand
// it starts the interactive shell.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sqlcrud",
		Short:        "sqlcrud: create, read, update and delete against a SQL server",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runShell,
	}

	flags := root.PersistentFlags()
	flags.String("env-file", "", "dotenv file with connection settings (default .env)")
	flags.String("engine", "", "database engine: sqlserver, postgres, pgx or mysql (env DB_ENGINE)")
	flags.String("host", "", `server host, "host\instance" for SQL Server (env SERVER_NAME)`)
	flags.Int("port", 0, "server port, 0 for the driver default (env DB_PORT)")
	flags.String("user", "", "user name (env USER_NAME)")
	flags.String("database", "", "database to connect to (env DB_NAME)")
	flags.String("log-level", "", "DEBUG, INFO, ERROR or FATAL (env LOG_LEVEL)")

	root.AddCommand(NewShellCmd())
	root.AddCommand(NewFixtureCmd())
	root.AddCommand(NewVersionCmd())
	return root
}
