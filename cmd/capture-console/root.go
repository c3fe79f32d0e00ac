package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"EnigmaNetz/Enigma-Capture-Console/config"
	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
	"EnigmaNetz/Enigma-Capture-Console/internal/netif"
	"EnigmaNetz/Enigma-Capture-Console/internal/templates"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	configPath string
	envFile    string

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "capture-console",
		Short: "Interactive packet capture console",
		Long: `capture-console lists capture interfaces, manages BPF capture templates
and runs one timed packet capture at a time, printing a summary line per packet.

Configuration is read from config.json in the working directory (or --config),
with CAPTURE_* environment variables taking precedence. A .env file is loaded
first when present.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is ./config.json)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before config")

	root.AddCommand(
		newInterfacesCmd(a),
		newTemplatesCmd(a),
		newCaptureCmd(a),
		newCollectLogsCmd(a),
		newSelftestCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.InitializeLogging(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.GetLogger()
	if cfg.File != "" {
		a.log.Debug("Using config file %s", cfg.File)
	}
	return nil
}

// openStore opens the configured user template store.
func (a *app) openStore() (store templates.Store, path string, closeFn func(), err error) {
	path = a.cfg.Templates.Path
	switch a.cfg.Templates.Backend {
	case config.TemplateBackendSQLite:
		if path == "" {
			if path, err = templates.DefaultPath("capture_templates.db"); err != nil {
				return nil, "", nil, err
			}
		}
		s, err := templates.NewSQLiteStore(path)
		if err != nil {
			return nil, "", nil, err
		}
		return s, path, func() { s.Close() }, nil
	default:
		if path == "" {
			if path, err = templates.DefaultPath(templates.TemplatesFileName); err != nil {
				return nil, "", nil, err
			}
		}
		return templates.NewJSONStore(path), path, func() {}, nil
	}
}

// openCatalog returns a loaded catalog. A store that cannot be read leaves
// the built-in templates available.
func (a *app) openCatalog(cmd *cobra.Command) (*templates.Catalog, func(), error) {
	store, _, closeFn, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	catalog := templates.NewCatalog(store, a.log)
	if err := catalog.Refresh(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: user templates unavailable: %v\n", err)
	}
	return catalog, closeFn, nil
}

// uplinkHint returns the default-route interface, or "" when unknown.
func (a *app) uplinkHint() string {
	hint, err := defaultRouteInterface()
	if err != nil {
		a.log.Debug("Default route interface unknown: %v", err)
		return ""
	}
	return hint
}

// uplinkDevice turns the uplink hint into a device name that can be opened.
// On Windows the hint is an adapter GUID inside the Npcap device name.
func (a *app) uplinkDevice() string {
	hint := a.uplinkHint()
	if hint == "" {
		return ""
	}
	ifaces, err := listInterfaces()
	if err != nil {
		a.log.Debug("Could not list interfaces to resolve uplink %s: %v", hint, err)
		return hint
	}
	for _, iface := range ifaces {
		if iface.Name == hint {
			return hint
		}
	}
	for _, iface := range ifaces {
		if netif.IsUplink(iface, hint) {
			return iface.Name
		}
	}
	return hint
}
