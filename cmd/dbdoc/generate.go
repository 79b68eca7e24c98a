package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/redbco/redb-dbdoc/internal/docgen"
	"github.com/redbco/redb-dbdoc/internal/options"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		dbms   string
		format string
		sets   []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate documentation for one database",
		Long: "Connect to one database and print its documentation to stdout. Options not given with --dbms or " +
			"--set come from the config file and the engine defaults. --set values are YAML, for example:\n\n" +
			"  dbdoc generate --dbms pgsql --set host=db --set components=[tables,views] \\\n" +
			"    --set 'filters={eq: {schema: public}}'",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := a.password(cmd)
			if err != nil {
				return err
			}
			tag, err := generateLayer(dbms, sets, pw)
			if err != nil {
				return err
			}
			if format != "" {
				tag.Format = &format
			}

			out, err := docgen.New(nil, a.config, a.log).Generate(cmd.Context(), tag)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&dbms, "dbms", "", "Database engine (pgsql, oracle, sqlserver, mysql or any alias)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: markdown or yaml (the collected catalog)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set an option as key=yaml-value (repeatable)")

	return cmd
}

// generateLayer builds the command-line layer. Later --set values win, and
// --dbms wins over a dbms set with --set.
func generateLayer(dbms string, sets []string, password *string) (options.Options, error) {
	layers := make([]options.Options, 0, len(sets)+1)
	for _, s := range sets {
		o, err := options.ParseAssignment(s)
		if err != nil {
			return options.Options{}, fmt.Errorf("--set: %w", err)
		}
		layers = append(layers, o)
	}

	top := options.Options{Password: password}
	if dbms != "" {
		top.DBMS = &dbms
	}
	return options.Merge(append(layers, top)...), nil
}
