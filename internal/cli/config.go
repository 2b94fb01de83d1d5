package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/OlliePage/temp-identity-project/pkg/config"
	providerconfig "github.com/OlliePage/temp-identity-project/pkg/providers/common/config"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.source().Load()
			if err != nil {
				return err
			}
			masked := maskSecrets(cfg)

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, masked)
			}
			data, err := yaml.Marshal(masked)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
		},
	})
	return cmd
}

// maskSecrets returns a copy of cfg safe to print
func maskSecrets(cfg *config.Config) *config.Config {
	out := *cfg
	out.Providers = make(map[string]map[string]string, len(cfg.Providers))
	for name := range cfg.Providers {
		helper := providerconfig.NewConfigHelper(name, providerconfig.Defaults{})
		out.Providers[name] = map[string]string(helper.SanitizeConfigForLogging(types.ProviderConfig(cfg.Providers[name])))
	}
	return &out
}
