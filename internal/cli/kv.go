package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newKVCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Get, set and remove stored values by key",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the value stored under key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Detach()

				v, err := store.Get(args[0])
				if err != nil {
					return storeError("get "+args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Store value under key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Detach()

				if err := store.Set(args[0], args[1]); err != nil {
					return storeError("set "+args[0], err)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <key>",
			Aliases: []string{"delete"},
			Short:   "Remove key",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Detach()

				if err := store.Delete(args[0]); err != nil {
					return storeError("remove "+args[0], err)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Detach()

				keys, err := store.Keys()
				if err != nil {
					return storeError("list keys", err)
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					if keys == nil {
						keys = []string{}
					}
					data, err := json.Marshal(keys)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(data))
					return nil
				}
				for _, k := range keys {
					fmt.Fprintln(out, k)
				}
				return nil
			},
		},
	)
	return cmd
}
