package cmd

import (
	"strings"
	"time"

	"github.com/oscdeck/oscdeck/osc"
	"github.com/spf13/cobra"
)

var bundleDelay time.Duration

var bundleCmd = &cobra.Command{
	Use:   `bundle "<address> [args...]"...`,
	Short: "Send several OSC messages in one bundle",
	Long: `Send several OSC messages in one bundle. Every argument is one ` +
		`message, written as for send and separated by spaces. The bundle is ` +
		`to be executed immediately unless --delay is given.`,
	Example: `  oscdeck bundle "/deck/1/play 1" "/deck/2/play 0"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := buildBundle(args, bundleDelay, time.Now())
		if err != nil {
			return err
		}

		return send(cmd, bundle)
	},
}

func init() {
	bundleCmd.Flags().DurationVar(&bundleDelay, "delay", 0, "schedule the bundle this far in the future")
	rootCmd.AddCommand(bundleCmd)
}

func buildBundle(specs []string, delay time.Duration, now time.Time) (*osc.Bundle, error) {
	bundle := osc.NewBundle()
	if delay > 0 {
		bundle = osc.NewBundleWithTime(now.Add(delay))
	}

	for _, spec := range specs {
		msg, err := parseMessage(strings.Fields(spec))
		if err != nil {
			return nil, err
		}
		if err := bundle.Append(msg); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}
