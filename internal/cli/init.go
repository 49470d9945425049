package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/paths"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/store"
)

func newInitCmd(a *app) *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and a model store",
		Long: "Create the configuration directory with a default config.yaml. With a\n" +
			"model name, also create the model store and seed its reference data.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInit(cmd, model)
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to create (default: model from config.yaml)")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, model string) error {
	if model == "" {
		model = a.settings.Model
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}
	written, err := writeConfigIfMissing(a.configDir, defaultConfigFile(a.flags.dataDir, model))
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if written {
		a.logger.Info("config written", "path", filepath.Join(a.configDir, paths.ConfigFileName))
	}

	if model == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "batchedit configured; no model initialized")
		return nil
	}

	backend := store.NewBackend()
	if err := backend.Attach(store.Config{DataDir: dataDir, Model: model, Seed: true}); err != nil {
		return storeError("initialize model", err)
	}
	dir := backend.Dir()
	if err := backend.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize model: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "model %s initialized in %s\n", model, dir)
	return nil
}
