// Package cli implements the tempidentity command line front end
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OlliePage/temp-identity-project/pkg/config"
	"github.com/OlliePage/temp-identity-project/pkg/factory"
	"github.com/OlliePage/temp-identity-project/pkg/history"
	"github.com/OlliePage/temp-identity-project/pkg/tempidentity"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersion is called from main to inject build-time version info.
func SetVersion(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
}

// app holds the global flags and the collaborators shared by all commands
type app struct {
	configPath string
	historyDir string
	envFile    string
	verbose    bool
	jsonOutput bool

	// registry, when set, replaces the built-in provider registry
	registry *factory.Registry
	// serviceOpts are appended when the service is built
	serviceOpts []tempidentity.Option

	logger *zap.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tempidentity",
		Short: "Disposable email addresses and phone numbers",
		Long: `tempidentity creates throwaway email inboxes and phone numbers through
pluggable providers, and waits for incoming messages or verification codes.

  tempidentity email create
  tempidentity email check --address me@x.test --password p --wait
  tempidentity sms create <service-id>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ~/.tempidentity/config.yaml)")
	flags.StringVar(&a.historyDir, "history-dir", "", "History directory (default: the config file's directory)")
	flags.StringVar(&a.envFile, "env-file", ".env", "Optional dotenv file read before the environment")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")
	flags.BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(newEmailCmd(a))
	root.AddCommand(newSMSCmd(a))
	root.AddCommand(newProvidersCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

func (a *app) setup() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	if a.configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		a.configPath = p
	}
	if a.historyDir == "" {
		a.historyDir = filepath.Dir(a.configPath)
	}

	if a.logger == nil {
		logger, err := buildLogger(a.verbose)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		a.logger = logger
	}
	return nil
}

// buildLogger returns a development logger with --verbose, otherwise a
// production logger that only reports warnings
func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func (a *app) source() *config.FileSource {
	return &config.FileSource{Path: a.configPath}
}

// historyStore opens the file store sized by the configured limit
func (a *app) historyStore() (*history.FileStore, error) {
	cfg, err := a.source().Load()
	if err != nil {
		return nil, err
	}
	return history.NewFileStore(a.historyDir, cfg.HistoryLimit, a.logger), nil
}

func (a *app) service() (*tempidentity.Service, error) {
	store, err := a.historyStore()
	if err != nil {
		return nil, err
	}

	opts := []tempidentity.Option{
		tempidentity.WithLogger(a.logger),
		tempidentity.WithHistory(store),
	}
	if a.registry != nil {
		opts = append(opts, tempidentity.WithRegistry(a.registry))
	}
	opts = append(opts, a.serviceOpts...)

	return tempidentity.New(a.source(), opts...), nil
}
