package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simaogato/partnerdesk/internal/adapter/keystore"
	"github.com/simaogato/partnerdesk/internal/adapter/rest"
	"github.com/simaogato/partnerdesk/internal/config"
	"github.com/simaogato/partnerdesk/internal/usecase/directory"
	"github.com/simaogato/partnerdesk/internal/usecase/session"
	"github.com/simaogato/partnerdesk/internal/usecase/transfer"
	"github.com/simaogato/partnerdesk/pkg/logging"
)

// app is what every command works with once configuration is loaded.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	gate      *session.Gate
	directory *directory.Directory
	engine    *transfer.Engine
	in        *bufio.Reader
}

type rootOptions struct {
	configFile string
	verbose    bool
	app        *app
}

// NewRootCommand builds the partnerctl command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "partnerctl",
		Short: "PartnerDesk client for bank partners",
		Long: `partnerctl signs a partner in, manages the partner's clients and moves
balances between them through the PartnerDesk API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default: ./partnerdesk.yaml or ~/.partnerdesk/partnerdesk.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newLoginCmd(opts))
	rootCmd.AddCommand(newLogoutCmd(opts))
	rootCmd.AddCommand(newWhoamiCmd(opts))
	rootCmd.AddCommand(newClientsCmd(opts))
	rootCmd.AddCommand(newTransferCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command output owns stdout; diagnostics stay quiet unless asked for.
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	strategy, err := transfer.ParseStrategy(cfg.Transfer.Strategy)
	if err != nil {
		return err
	}

	gateway := rest.NewGateway(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout, logger)
	gate := session.NewGate(gateway, keystore.NewFileStore(cfg.Session.Path), logger)
	dir := directory.NewDirectory(gateway, gate, logger)

	o.app = &app{
		cfg:       cfg,
		logger:    logger,
		gate:      gate,
		directory: dir,
		engine:    transfer.NewEngine(gateway, dir, strategy, logger),
		in:        bufio.NewReader(cmd.InOrStdin()),
	}
	return nil
}

// Execute runs partnerctl with the process arguments.
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
