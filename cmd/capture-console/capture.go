package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"EnigmaNetz/Enigma-Capture-Console/config"
	"EnigmaNetz/Enigma-Capture-Console/internal/capture"
	"EnigmaNetz/Enigma-Capture-Console/internal/display"
	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
	"EnigmaNetz/Enigma-Capture-Console/internal/session"
)

const stopTimeout = 5 * time.Second

type captureOptions struct {
	iface         string
	filter        string
	template      string
	duration      int
	displayFilter string
	readFile      string
}

func newCaptureCmd(a *app) *cobra.Command {
	opts := &captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Run one timed capture and print a line per packet",
		Long: `Run one capture session. A --template overrides --filter and --duration.
Ctrl-C stops the capture early. --read replays a pcap or pcapng file instead
of opening a live interface.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("duration") {
				opts.duration = a.cfg.Capture.DurationSeconds
			}
			return a.runCapture(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.iface, "interface", "i", "", "interface to capture on (default from config, then the default-route interface)")
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "BPF capture filter")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "capture template name")
	cmd.Flags().IntVarP(&opts.duration, "duration", "d", 0, "capture duration in seconds")
	cmd.Flags().StringVar(&opts.displayFilter, "display-filter", "", `display filter expression, e.g. 'tcp && dst == "10.0.0.1"'`)
	cmd.Flags().StringVarP(&opts.readFile, "read", "r", "", "replay packets from a capture file")
	return cmd
}

func (a *app) runCapture(cmd *cobra.Command, opts *captureOptions) error {
	filter, err := display.CompileFilter(opts.displayFilter)
	if err != nil {
		return err
	}

	source, iface, err := a.captureSource(opts)
	if err != nil {
		return err
	}

	catalog, closeFn, err := a.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	reg := prometheus.NewRegistry()
	metrics := session.NewMetrics(reg)
	if a.cfg.Metrics.Listen != "" {
		srv := serveMetrics(a.cfg.Metrics.Listen, reg, a.log)
		defer srv.Close()
	}

	sink := display.NewPacketSink(cmd.OutOrStdout(), filter)
	controller := session.NewController(session.Config{
		Engine:    capture.NewEngine(source, a.log),
		Templates: catalog,
		Sink:      sink,
		Logger:    a.log,
		Metrics:   metrics,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = controller.Start(ctx, session.Params{
		Interface:       iface,
		Filter:          opts.filter,
		TemplateID:      opts.template,
		DurationSeconds: opts.duration,
	})
	if err != nil {
		return err
	}

	state := controller.State()
	fmt.Fprintf(cmd.ErrOrStderr(), "Capturing on %s for %ds (filter %q). Press Ctrl-C to stop.\n",
		state.Interface, state.DurationSeconds, state.Filter)

	select {
	case <-sink.Stopped():
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := controller.Stop(stopCtx); err != nil {
			return err
		}
		if err := controller.Wait(stopCtx); err != nil {
			return fmt.Errorf("capture did not stop: %w", err)
		}
	}
	return nil
}

// captureSource picks the packet source and the interface label for a run.
func (a *app) captureSource(opts *captureOptions) (capture.Source, string, error) {
	if opts.readFile != "" {
		iface := opts.iface
		if iface == "" {
			iface = filepath.Base(opts.readFile)
		}
		return capture.FileSource{Path: opts.readFile}, iface, nil
	}

	iface := opts.iface
	if iface == "" {
		iface = a.cfg.Capture.Interface
	}
	if iface == "" {
		iface = a.uplinkDevice()
	}
	if iface == "" {
		return nil, "", errors.New("no interface given and no default route found; use --interface")
	}
	if err := config.ValidateInterfaceName(iface); err != nil {
		return nil, "", fmt.Errorf("invalid interface '%s': %w", iface, err)
	}

	return capture.LiveSource{
		SnapLen:     a.cfg.Capture.SnapLen,
		Promiscuous: a.cfg.Capture.Promiscuous,
	}, iface, nil
}

func serveMetrics(listen string, reg *prometheus.Registry, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Serving metrics on %s/metrics", listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed: %v", err)
		}
	}()
	return srv
}
