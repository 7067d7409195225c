package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/cmt-technologies/otrmtv/cmd/identity"
	"github.com/cmt-technologies/otrmtv/cmd/pair"
	"github.com/cmt-technologies/otrmtv/cmd/serve"
	"github.com/cmt-technologies/otrmtv/internal/config"
	"github.com/cmt-technologies/otrmtv/internal/logging"
	"github.com/spf13/cobra"
)

var (
	logLevel      string
	logFormat     string
	lookupURL     string
	lookupTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "otrmtv",
	Short: "In-room TV pairing agent",
	Long:  "Resolve this TV's identity and show the Wi-Fi and cast pairing code for its room",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if flags.Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		if flags.Changed("lookup-url") {
			cfg.LookupURL = lookupURL
		}
		if flags.Changed("lookup-timeout") {
			cfg.LookupTimeout = lookupTimeout
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		slog.Error("Fail to execute", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&lookupURL, "lookup-url", "", "pairing lookup endpoint")
	rootCmd.PersistentFlags().DurationVar(&lookupTimeout, "lookup-timeout", 0, "lookup request timeout, 0 for none")

	rootCmd.AddCommand(identity.Cmd)
	rootCmd.AddCommand(pair.Cmd)
	rootCmd.AddCommand(serve.Cmd)
}
