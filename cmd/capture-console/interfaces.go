package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"EnigmaNetz/Enigma-Capture-Console/internal/capture"
	"EnigmaNetz/Enigma-Capture-Console/internal/display"
	"EnigmaNetz/Enigma-Capture-Console/internal/netif"
	"EnigmaNetz/Enigma-Capture-Console/internal/session"
)

// Swapped out in tests.
var (
	defaultRouteInterface = netif.DefaultRouteInterface
	listInterfaces        = capture.ListInterfaces
)

func newInterfacesCmd(a *app) *cobra.Command {
	var uplink string

	cmd := &cobra.Command{
		Use:   "interfaces",
		Short: "List capture interfaces and mark the uplink",
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := a.renderInterfaces(cmd.Context(), uplink)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), listing)
			return nil
		},
	}
	cmd.Flags().StringVar(&uplink, "uplink", "", "uplink interface hint (default is the default-route interface)")
	return cmd
}

func (a *app) renderInterfaces(ctx context.Context, hint string) (string, error) {
	if hint == "" {
		hint = a.uplinkHint()
	}
	controller := session.NewController(session.Config{
		Engine: capture.NewEngine(nil, a.log),
		Logger: a.log,
	})
	ifaces, err := controller.Interfaces(ctx, hint)
	if err != nil {
		return "", err
	}
	return display.RenderInterfaces(ifaces), nil
}
