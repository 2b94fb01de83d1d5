package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func newProvidersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List and configure providers",
	}
	cmd.AddCommand(newProvidersListCmd(a))
	cmd.AddCommand(newProvidersFieldsCmd(a))
	cmd.AddCommand(newProvidersConfigureCmd(a))
	return cmd
}

func newProvidersListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			providers := svc.AvailableProviders()

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, providers)
			}
			var rows [][]string
			for _, group := range [][]types.ProviderDescriptor{providers.Email, providers.SMS} {
				for _, d := range group {
					rows = append(rows, []string{
						string(d.Kind),
						d.Name,
						d.DisplayName,
						strconv.FormatBool(d.RequiresAPIKey),
						d.Description,
					})
				}
			}
			return printTable(out, []string{"KIND", "NAME", "DISPLAY NAME", "API KEY", "DESCRIPTION"}, rows)
		},
	}
}

func newProvidersFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <email|sms> <name>",
		Short: "Show the settings a provider needs",
		Long: `Show the settings a provider needs. With --json the effective
settings of the provider are included, without secret values.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseProviderKind(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			fields, err := svc.SetupFields(kind, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				settings, err := svc.ProviderSettings(kind, args[1])
				if err != nil {
					return err
				}
				return printJSON(out, map[string]interface{}{
					"fields":   fields,
					"settings": settings,
				})
			}
			if len(fields) == 0 {
				fmt.Fprintf(out, "%s needs no configuration.\n", args[1])
				return nil
			}
			rows := make([][]string, 0, len(fields))
			for _, f := range fields {
				rows = append(rows, []string{f.Name, f.Type, strconv.FormatBool(f.Required), f.HelpText})
			}
			return printTable(out, []string{"NAME", "TYPE", "REQUIRED", "HELP"}, rows)
		},
	}
}

func newProvidersConfigureCmd(a *app) *cobra.Command {
	var values map[string]string

	cmd := &cobra.Command{
		Use:   "configure <email|sms> <name>",
		Short: "Save provider settings and make it the preferred provider",
		Example: `  tempidentity providers configure sms textverified --set api_key=XXXX
  tempidentity providers configure email mail.tm`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseProviderKind(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.ConfigureProvider(kind, args[1], values); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now the preferred %s provider.\n", args[1], kind)
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&values, "set", nil, "Setting as key=value (repeatable)")
	return cmd
}
