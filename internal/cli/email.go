package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func newEmailCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Create and read disposable mailboxes",
	}
	cmd.AddCommand(newEmailCreateCmd(a))
	cmd.AddCommand(newEmailCheckCmd(a))
	cmd.AddCommand(newEmailReadCmd(a))
	return cmd
}

// mailboxFlags are shared by the commands that act on an existing mailbox
type mailboxFlags struct {
	address  string
	password string
	provider string
}

func (f *mailboxFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.address, "address", "", "Mailbox address")
	cmd.Flags().StringVar(&f.password, "password", "", "Mailbox password")
	cmd.Flags().StringVar(&f.provider, "provider", "", "Email provider (default: preferred provider)")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("password")
}

func (f *mailboxFlags) identity() types.EmailIdentity {
	return types.EmailIdentity{Address: f.address, Password: f.password, Provider: f.provider}
}

func newEmailCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new mailbox on the preferred email provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			identity, ok := svc.CreateEmail(cmd.Context())
			if !ok {
				return errors.New("failed to create email address")
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, identity)
			}
			return printFields(out, [][2]string{
				{"Email", identity.Address},
				{"Password", identity.Password},
				{"Provider", identity.Provider},
			})
		},
	}
}

func newEmailCheckCmd(a *app) *cobra.Command {
	var (
		mailbox mailboxFlags
		wait    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "List the inbox, optionally waiting for new messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			msgs := svc.CheckEmailMessages(cmd.Context(), mailbox.identity(), wait, timeout)

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, msgs)
			}
			if len(msgs) == 0 {
				fmt.Fprintln(out, "No messages.")
				return nil
			}
			rows := make([][]string, 0, len(msgs))
			for i, m := range msgs {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					m.ID,
					sender(m.From),
					m.Subject,
					formatTime(m.CreatedAt),
				})
			}
			return printTable(out, []string{"#", "ID", "FROM", "SUBJECT", "RECEIVED"}, rows)
		},
	}

	mailbox.register(cmd)
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for new messages")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "How long to wait (default: configured default_wait_time)")
	return cmd
}

func newEmailReadCmd(a *app) *cobra.Command {
	var mailbox mailboxFlags

	cmd := &cobra.Command{
		Use:   "read <message-id>",
		Short: "Print the full content of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			msg, ok := svc.GetEmailMessageContent(cmd.Context(), mailbox.identity(), args[0])
			if !ok {
				return fmt.Errorf("failed to read message %s", args[0])
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, msg)
			}
			if err := printFields(out, [][2]string{
				{"From", sender(msg.From)},
				{"Subject", msg.Subject},
				{"Date", formatTime(msg.CreatedAt)},
			}); err != nil {
				return err
			}
			fmt.Fprintln(out)
			body := msg.Text
			if body == "" {
				body = strings.Join(msg.HTML, "\n")
			}
			fmt.Fprintln(out, body)
			return nil
		},
	}

	mailbox.register(cmd)
	return cmd
}

func sender(a types.Address) string {
	if a.Name == "" {
		return orNA(a.Address)
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Address)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
