package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newQueryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <statement>",
		Short: "Run one statement and print the result envelope as JSON",
		Example: `  docquery query "db.alarm_info.count()"
  docquery query "db.alarm_info.find({'level': 'critical'}).limit(5)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.close()

			svc, err := a.newService(eng.collection)
			if err != nil {
				return err
			}

			out, err := svc.QueryJSON(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return err
		},
	}
}
