package cmd

import (
	"fmt"

	"github.com/oscdeck/oscdeck/osc"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <address> [args...]",
	Short: "Send one OSC message",
	Long: `Send one OSC message to the device. Arguments may be typed with the ` +
		`prefixes i:, f:, s: and b: (hex bytes); untyped arguments become an ` +
		`int, a float or a string, whichever parses first.`,
	Example: `  oscdeck send /deck/1/play 1
  oscdeck send /deck/1/rate f:0.5
  oscdeck send /deck/1/title "s:Track 01" b:cafe`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := parseMessage(args)
		if err != nil {
			return err
		}

		return send(cmd, msg)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

// send writes one packet to the device.
func send(cmd *cobra.Command, packet osc.Packet) error {
	client, err := osc.DialContext(cmd.Context(), cfg.SendAddr())
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Send(packet); err != nil {
		return err
	}

	log.Debug("sent", "to", client.RemoteAddr().String(), "packet", fmt.Sprint(packet))
	return nil
}
