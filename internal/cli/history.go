package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the transactions committed to a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if model == "" {
				model = a.settings.Model
			}
			dataDir, err := a.dataDir()
			if err != nil {
				return sysError(fmt.Errorf("resolve data dir: %w", err))
			}

			backend := store.NewBackend()
			if err := backend.Attach(store.Config{DataDir: dataDir, Model: model}); err != nil {
				return storeError("attach model", err)
			}
			defer backend.Detach()

			entries, err := backend.Journal()
			if err != nil {
				return sysError(fmt.Errorf("read journal: %w", err))
			}

			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if entries == nil {
					entries = []store.JournalEntry{}
				}
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(w, "no transactions")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(w, "%s  %s  %s  (%d records)\n", e.CommittedAt, e.ID, e.Context, len(e.Records))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model short name (default: model from config.yaml)")
	return cmd
}
