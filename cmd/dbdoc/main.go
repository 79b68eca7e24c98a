package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/redbco/redb-dbdoc/internal/docgen"
	"github.com/redbco/redb-dbdoc/internal/options"
	"github.com/redbco/redb-dbdoc/pkg/logger"

	_ "github.com/redbco/redb-dbdoc/internal/engine/mssql"
	_ "github.com/redbco/redb-dbdoc/internal/engine/mysql"
	_ "github.com/redbco/redb-dbdoc/internal/engine/oracle"
	_ "github.com/redbco/redb-dbdoc/internal/engine/postgres"
)

var (
	// Build information, set with -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"

	exit = os.Exit

	// readPassword reads a password from stdin with masking
	readPassword = func(w io.Writer) (string, error) {
		fmt.Fprint(w, "Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}
)

// app holds state shared by all commands of one invocation.
type app struct {
	configFile  string
	logLevel    string
	askPassword bool

	config *options.Config
	log    *logger.Logger
}

func printVersionInfo(w io.Writer) {
	fmt.Fprintf(w, "dbdoc %s\n", Version)
	fmt.Fprintf(w, "Built: %s, from commit: %s\n", BuildTime, GitCommit)
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "dbdoc",
		Short: "Generate documentation from database catalogs",
		Long: "dbdoc reads the system catalog of a PostgreSQL, Oracle, SQL Server or MySQL database and renders " +
			"tables, views, functions and triggers as Markdown with an optional PlantUML diagram.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				printVersionInfo(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides logging.level")
	rootCmd.PersistentFlags().BoolVar(&a.askPassword, "ask-password", false, "Prompt for the database password")
	rootCmd.Flags().Bool("version", false, "Show version information and exit")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newPreprocessCmd(a))
	rootCmd.AddCommand(newEnginesCmd())
	rootCmd.AddCommand(newKeyringCmd(a))

	return rootCmd
}

// setup loads the configuration and sets up logging on stderr; stdout only
// carries generated documents.
func (a *app) setup(cmd *cobra.Command) error {
	config, err := options.Load(a.configFile)
	if err != nil {
		return err
	}
	a.config = config

	name := a.logLevel
	if name == "" {
		name = config.Logging.Level
	}
	level, err := logger.ParseLevel(name)
	if err != nil {
		return err
	}

	a.log = logger.New("dbdoc", Version)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(level)
	return nil
}

func (a *app) password(cmd *cobra.Command) (*string, error) {
	if !a.askPassword {
		return nil, nil
	}
	pw, err := readPassword(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return &pw, nil
}

// handleError reports err and exits with status 1.
func handleError(w io.Writer, err error) {
	var fe *docgen.FatalError
	if errors.As(err, &fe) {
		fmt.Fprintf(w, "ERROR: %s. Exit.\n", fe.Msg)
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	exit(1)
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		handleError(rootCmd.ErrOrStderr(), err)
	}
}
