package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Insert documents, one literal per line, into the configured collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			documents, err := readDocuments(args[0])
			if err != nil {
				return err
			}

			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.close()

			if err := eng.insert(cmd.Context(), documents...); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "inserted %d documents into %s\n", len(documents), a.cfg.Collection)

			return err
		},
	}
}
