package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redbco/redb-dbdoc/internal/secrets"
)

func newKeyringCmd(a *app) *cobra.Command {
	var (
		dbms string
		sets []string
	)

	// account resolves the connection the flags describe, including the
	// config file, and names its keyring entry.
	account := func() (string, error) {
		tag, err := generateLayer(dbms, sets, nil)
		if err != nil {
			return "", err
		}
		resolved, err := a.config.Resolve(tag)
		if err != nil {
			return "", err
		}
		return secrets.Account(resolved.Connection), nil
	}

	keyringCmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage passwords stored in the system keyring",
		Long: "Store database passwords in the system keyring. Blocks that set keyring: true read their password " +
			"from the entry matching their engine, user, host, port and database.",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Prompt for a password and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := account()
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if err := secrets.NewStore().Set(acct, pw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored password for %s\n", acct)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove a stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := account()
			if err != nil {
				return err
			}
			if err := secrets.NewStore().Delete(acct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed password for %s\n", acct)
			return nil
		},
	}

	keyringCmd.PersistentFlags().StringVar(&dbms, "dbms", "", "Database engine (pgsql, oracle, sqlserver, mysql or any alias)")
	keyringCmd.PersistentFlags().StringArrayVar(&sets, "set", nil, "Set a connection option as key=yaml-value (repeatable)")
	keyringCmd.AddCommand(setCmd, deleteCmd)

	return keyringCmd
}
