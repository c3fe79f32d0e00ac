package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"EnigmaNetz/Enigma-Capture-Console/config"
	"EnigmaNetz/Enigma-Capture-Console/internal/capture"
	"EnigmaNetz/Enigma-Capture-Console/internal/selftest"
)

// loopbackInterface is swapped out in tests.
var loopbackInterface = func() (string, error) {
	ifaces, err := listInterfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.IsLoopback && iface.IsUp {
			return iface.Name, nil
		}
	}
	return "", errors.New("no loopback interface found")
}

func newSelftestCmd(a *app) *cobra.Command {
	var iface string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check that live capture works by capturing generated loopback traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			if iface == "" {
				name, err := loopbackInterface()
				if err != nil {
					return err
				}
				iface = name
			}
			if err := config.ValidateInterfaceName(iface); err != nil {
				return fmt.Errorf("invalid interface '%s': %w", iface, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runSelftest(ctx, cmd, iface, duration)
		},
	}
	cmd.Flags().StringVarP(&iface, "interface", "i", "", "interface that carries loopback traffic (default: first loopback device)")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 3*time.Second, "how long to capture")
	return cmd
}

func (a *app) runSelftest(ctx context.Context, cmd *cobra.Command, iface string, duration time.Duration) error {
	engine := capture.NewEngine(capture.LiveSource{
		SnapLen:     a.cfg.Capture.SnapLen,
		Promiscuous: false,
	}, a.log)

	result, err := selftest.Run(ctx, engine, selftest.Config{Interface: iface, Duration: duration}, a.log)
	fmt.Fprintf(cmd.OutOrStdout(), "Interface:   %s\nFilter:      %s\nRequests:    %d\nPackets:     %d\nStopped:     %s\n",
		iface, result.Filter, result.Requests, result.Packets, result.StopMessage)
	if err != nil {
		return fmt.Errorf("self-test failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Self-test passed")
	return nil
}
