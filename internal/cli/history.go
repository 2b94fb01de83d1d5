package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <email|sms>",
		Short: "Show previously created identities, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseProviderKind(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			records, err := svc.History(cmd.Context(), kind)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, records)
			}

			rows := make([][]string, 0, len(records))
			for i, r := range records {
				identity := r.Address
				if kind == types.ProviderKindSMS {
					identity = r.PhoneNumber
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					orNA(identity),
					orNA(r.Service),
					r.Provider,
					formatTime(r.Timestamp),
				})
			}
			return printTable(out, []string{"#", "IDENTITY", "SERVICE", "PROVIDER", "DATE"}, rows)
		},
	}
}
