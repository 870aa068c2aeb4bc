// Package cmd provides the command-line interface of oscdeck.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/oscdeck/oscdeck/internal/config"
	"github.com/oscdeck/oscdeck/internal/logger"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	// settings after the env files, the environment and the flags
	cfg config.Config
	log *slog.Logger

	envFiles []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oscdeck",
	Short: "oscdeck sends, receives and maps OSC messages.",
	Long: `oscdeck sends, receives and maps OSC messages. It binds OSC addresses ` +
		`to named controls the way a DJ controller mapping does, and can record ` +
		`the traffic to SQLite or expose the controls over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	defaults := config.Default()

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to read settings from")
	flags.String("name", defaults.Name, "controller name used in logs")
	flags.String("host", defaults.Host, "host of the OSC device")
	flags.Int("send-port", defaults.SendPort, "port messages are sent to")
	flags.Int("recv-port", defaults.RecvPort, "local port messages are received on")
	flags.String("log-level", defaults.LogLevel, "debug, info, warn or error")
}

// loadConfig reads the env files and the environment; flags given on the
// command line override both.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(envFiles...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	strs := map[string]*string{
		"name":      &cfg.Name,
		"host":      &cfg.Host,
		"log-level": &cfg.LogLevel,
		"record":    &cfg.RecordPath,
		"http":      &cfg.HTTPAddr,
	}
	for name, dst := range strs {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			*dst = flag.Value.String()
		}
	}
	ints := map[string]*int{
		"send-port": &cfg.SendPort,
		"recv-port": &cfg.RecvPort,
	}
	for name, dst := range ints {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			if *dst, err = flags.GetInt(name); err != nil {
				return err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log = logger.NewWithWriter(cmd.ErrOrStderr(), lvl)

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
