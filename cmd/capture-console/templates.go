package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"EnigmaNetz/Enigma-Capture-Console/internal/display"
	"EnigmaNetz/Enigma-Capture-Console/internal/templates"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List and save capture templates",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in and saved templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, closeFn, err := a.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			fmt.Fprint(cmd.OutOrStdout(), display.RenderTemplates(catalog.Templates()))
			return nil
		},
	}

	var t templates.CaptureTemplate
	save := &cobra.Command{
		Use:   "save",
		Short: "Save a user template",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, closeFn, err := a.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := catalog.Save(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved template %q\n", t.Name)
			return nil
		},
	}
	save.Flags().StringVar(&t.Name, "name", "", "template name")
	save.Flags().StringVar(&t.Description, "description", "", "template description")
	save.Flags().StringVar(&t.BPFFilter, "filter", "", "BPF capture filter")
	save.Flags().IntVar(&t.Duration, "duration", 0, "capture duration in seconds (0 uses the default)")
	_ = save.MarkFlagRequired("name")
	_ = save.MarkFlagRequired("filter")

	cmd.AddCommand(list, save)
	return cmd
}
