package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oscdeck/oscdeck/controller"
	"github.com/oscdeck/oscdeck/internal/monitor"
	"github.com/oscdeck/oscdeck/internal/recorder"
	"github.com/oscdeck/oscdeck/osc"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	mappingFile string
	inputMaps   []string
	outputMaps  []string
	openBrowser bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Receive OSC messages and drive mapped controls",
	Long: `Receive OSC messages on the receive port and print them. Addresses ` +
		`mapped with --map set their control, and every mapped control is ` +
		`reported back to the device whenever it changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return listen(ctx, cmd)
	},
}

func init() {
	flags := listenCmd.Flags()
	flags.StringVar(&mappingFile, "mapping", "", "YAML mapping file")
	flags.StringArrayVar(&inputMaps, "map", nil, "map an input, as /address=[Group],item")
	flags.StringArrayVar(&outputMaps, "out", nil, "map an output only, as /address=[Group],item")
	flags.String("record", "", "record the traffic to the SQLite database <path>.sqlite3")
	flags.String("http", "", "serve the controls over HTTP on this address")
	flags.BoolVar(&openBrowser, "open", false, "open the HTTP monitor in a browser")

	rootCmd.AddCommand(listenCmd)
}

func listen(ctx context.Context, cmd *cobra.Command) error {
	mapping := controller.NewMappingSet()
	if mappingFile != "" {
		f, err := os.Open(mappingFile)
		if err != nil {
			return err
		}
		mapping, err = controller.ReadMappings(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", mappingFile, err)
		}
	}

	table := controller.NewControlTable(mapping.Controls()...)
	for _, s := range inputMaps {
		m, err := parseMapping(s)
		if err != nil {
			return err
		}
		table.Register(m.Control)
		mapping.AddInputMapping(m)
	}
	for _, s := range outputMaps {
		m, err := parseMapping(s)
		if err != nil {
			return err
		}
		table.Register(m.Control)
		mapping.AddOutputMapping(m)
	}

	out := cmd.OutOrStdout()
	opts := []controller.Option{
		controller.WithLogger(log),
		controller.WithRecorder(controller.RecorderFunc(
			func(dir controller.Direction, peer string, msg *osc.Message) error {
				if dir == controller.Received {
					_, err := fmt.Fprintf(out, "%s %s\n", peer, msg)
					return err
				}
				return nil
			})),
	}

	if cfg.RecordPath != "" {
		rec, err := recorder.New(cfg.RecordPath)
		if err != nil {
			return err
		}
		defer rec.Close()

		log.Info("recording traffic", "file", rec.Filename(), "session", rec.Session().String())
		opts = append(opts, controller.WithRecorder(rec))
	}

	ctrl := controller.New(cfg.Controller(), table, opts...)
	ctrl.SetMapping(mapping)

	if err := ctrl.Open(ctx); err != nil {
		return err
	}
	defer ctrl.Close()

	errc := make(chan error, 1)
	if cfg.HTTPAddr != "" {
		ln, err := monitor.Listen(ctx, cfg.HTTPAddr)
		if err != nil {
			return fmt.Errorf("monitor: %w", err)
		}

		mon := monitor.New(table, ctrl, log)
		go func() { errc <- mon.Serve(ctx, ln) }()

		if openBrowser {
			if err := browser.OpenURL(monitor.URL(ln)); err != nil {
				log.Warn("can't open browser", "err", err)
			}
		}
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("monitor: %w", err)
	}
}
