package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func newSMSCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms",
		Short: "Rent disposable phone numbers and receive verification codes",
	}
	cmd.AddCommand(newSMSServicesCmd(a))
	cmd.AddCommand(newSMSCreateCmd(a))
	cmd.AddCommand(newSMSWaitCmd(a))
	cmd.AddCommand(newSMSCancelCmd(a))
	return cmd
}

// numberFlags identify an allocation made by an earlier command
type numberFlags struct {
	number         string
	verificationID string
	service        string
	provider       string
}

func (f *numberFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.verificationID, "id", "", "Verification id printed by 'sms create'")
	cmd.Flags().StringVar(&f.number, "number", "", "Phone number")
	cmd.Flags().StringVar(&f.service, "service", "", "Service id")
	cmd.Flags().StringVar(&f.provider, "provider", "", "SMS provider (default: preferred provider)")
	_ = cmd.MarkFlagRequired("id")
}

func (f *numberFlags) identity() types.PhoneIdentity {
	return types.PhoneIdentity{
		PhoneNumber:    f.number,
		VerificationID: f.verificationID,
		Service:        f.service,
		Provider:       f.provider,
	}
}

func newSMSServicesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the services numbers can be rented for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			services := svc.GetSMSServices(cmd.Context())

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, services)
			}
			if len(services) == 0 {
				return errors.New("no services available (is the SMS provider api_key configured?)")
			}
			rows := make([][]string, 0, len(services))
			for _, s := range services {
				rows = append(rows, []string{s.ID, s.Name, fmt.Sprintf("%.2f", s.Price)})
			}
			return printTable(out, []string{"ID", "NAME", "PRICE"}, rows)
		},
	}
}

func newSMSCreateCmd(a *app) *cobra.Command {
	var (
		wait    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create <service-id>",
		Short: "Rent a number for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			identity, ok := svc.CreateNumber(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("failed to create a number for service %s", args[0])
			}

			out := cmd.OutOrStdout()
			if !wait {
				if a.jsonOutput {
					return printJSON(out, identity)
				}
				return printFields(out, identityFields(identity))
			}

			code, found := svc.WaitForSMSCode(cmd.Context(), identity, timeout)
			if a.jsonOutput {
				return printJSON(out, codeResult{Identity: identity, Code: code, Received: found})
			}
			if err := printFields(out, identityFields(identity)); err != nil {
				return err
			}
			if !found {
				return errors.New("no verification code received; the number was cancelled")
			}
			fmt.Fprintf(out, "Code:\t%s\n", code)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the verification code, then cancel the number")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "How long to wait (default: configured sms_wait_time)")
	return cmd
}

type codeResult struct {
	Identity types.PhoneIdentity `json:"identity"`
	Code     string              `json:"code,omitempty"`
	Received bool                `json:"received"`
}

func newSMSWaitCmd(a *app) *cobra.Command {
	var (
		number  numberFlags
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait for the verification code of a rented number, then cancel it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			identity := number.identity()
			code, found := svc.WaitForSMSCode(cmd.Context(), identity, timeout)

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, codeResult{Identity: identity, Code: code, Received: found})
			}
			if !found {
				return errors.New("no verification code received; the number was cancelled")
			}
			fmt.Fprintln(out, code)
			return nil
		},
	}

	number.register(cmd)
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "How long to wait (default: configured sms_wait_time)")
	return cmd
}

func newSMSCancelCmd(a *app) *cobra.Command {
	var number numberFlags

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Release a rented number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if !svc.CancelNumber(cmd.Context(), number.identity()) {
				return errors.New("failed to cancel number")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Number cancelled.")
			return nil
		},
	}

	number.register(cmd)
	return cmd
}

func identityFields(p types.PhoneIdentity) [][2]string {
	return [][2]string{
		{"Number", p.PhoneNumber},
		{"ID", p.VerificationID},
		{"Service", p.Service},
		{"Provider", p.Provider},
		{"Region", orNA(p.Region)},
	}
}
