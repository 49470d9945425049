package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/archive"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/command"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/metrics"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/paths"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/store"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// applyFlags holds the flag values of one apply invocation.
type applyFlags struct {
	action             string
	model              string
	elementDefinition  string
	parameters         []string
	domain             string
	toDomain           string
	scale              string
	valueSwitch        string
	includedOwners     []string
	excludedOwners     []string
	categories         []string
	selectedParameters []string
	where              string
	dryRun             bool
	archive            string
}

// applyResult is the --json output of apply.
type applyResult struct {
	Action       string        `json:"action"`
	Model        string        `json:"model"`
	State        string        `json:"state"`
	Transactions int           `json:"transactions"`
	Reason       string        `json:"reason,omitempty"`
	DryRun       bool          `json:"dry_run"`
	Commit       *store.Report `json:"commit,omitempty"`
	Archive      string        `json:"archive,omitempty"`
}

func actionNames() string {
	names := make([]string, len(types.Actions))
	for i, a := range types.Actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func newApplyCmd(a *app) *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run one batch operation against a model",
		Long: "Build the transactions of one batch operation, then commit them to the\n" +
			"model store unless --dry-run is given.\n\nActions: " + actionNames(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runApply(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.action, "action", "", "operation to perform")
	fl.StringVarP(&f.model, "model", "m", "", "model short name (default: model from config.yaml)")
	fl.StringVar(&f.elementDefinition, "element-definition", "", "restrict to the element definition with this short name")
	fl.StringSliceVar(&f.parameters, "parameters", nil, "parameter type short names to act on")
	fl.StringVar(&f.domain, "domain", "", "domain of expertise short name (source owner or subscriber)")
	fl.StringVar(&f.toDomain, "to-domain", "", "target domain of expertise short name")
	fl.StringVar(&f.scale, "scale", "", "measurement scale short name")
	fl.StringVar(&f.valueSwitch, "value-switch", "", "subscription value switch (COMPUTED, MANUAL, REFERENCE)")
	fl.StringSliceVar(&f.includedOwners, "included-owners", nil, "only consider element definitions owned by these domains")
	fl.StringSliceVar(&f.excludedOwners, "excluded-owners", nil, "ignore element definitions owned by these domains")
	fl.StringSliceVar(&f.categories, "categories", nil, "only consider element definitions in these categories")
	fl.StringSliceVar(&f.selectedParameters, "selected-parameters", nil, "only consider parameters of these types")
	fl.StringVar(&f.where, "where", "", "CEL predicate over shortName, name, owner and categories")
	fl.BoolVar(&f.dryRun, "dry-run", false, "build transactions without committing them")
	fl.StringVar(&f.archive, "archive", "", "archive committed logs: fs or s3 (default: archive from config.yaml)")
	return cmd
}

// arguments converts the flags into engine arguments.
func (f applyFlags) arguments(defaultModel string) (types.Arguments, error) {
	action, err := types.ParseAction(f.action)
	if err != nil {
		return types.Arguments{}, err
	}
	model := f.model
	if model == "" {
		model = defaultModel
	}
	if model == "" {
		return types.Arguments{}, store.ErrModelRequired
	}
	args := types.Arguments{
		Action:             action,
		Model:              model,
		ElementDefinition:  f.elementDefinition,
		Parameters:         f.parameters,
		Domain:             f.domain,
		ToDomain:           f.toDomain,
		Scale:              f.scale,
		ValueSwitch:        strings.ToUpper(f.valueSwitch),
		IncludedOwners:     f.includedOwners,
		ExcludedOwners:     f.excludedOwners,
		FilteredCategories: f.categories,
		SelectedParameters: f.selectedParameters,
		Where:              f.where,
		DryRun:             f.dryRun,
	}
	if err := args.Validate(); err != nil {
		return types.Arguments{}, err
	}
	return args, nil
}

func (a *app) runApply(cmd *cobra.Command, f applyFlags) error {
	ctx := cmd.Context()
	args, err := f.arguments(a.settings.Model)
	if err != nil {
		return userError(err)
	}
	archiveKind := f.archive
	if archiveKind == "" {
		archiveKind = a.settings.Archive
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	backend := store.NewBackend()
	if err := backend.Attach(store.Config{DataDir: dataDir, Model: args.Model}); err != nil {
		return storeError("attach model", err)
	}
	defer backend.Detach()

	snap, err := backend.Load()
	if err != nil {
		return sysError(fmt.Errorf("load model: %w", err))
	}

	recorder := metrics.New()
	opts := a.settings.commandOptions()
	opts.Logger = a.logger.With("model", args.Model)
	outcome, err := command.NewRunner(opts, recorder).Run(args, snap)
	if err != nil {
		if errors.Is(err, types.ErrUnknownAction) {
			return userError(err)
		}
		return sysError(err)
	}

	result := applyResult{
		Action:       string(outcome.Action),
		Model:        args.Model,
		State:        outcome.State.String(),
		Transactions: outcome.Log.Len(),
		DryRun:       args.DryRun,
	}
	if outcome.Reason != nil {
		result.Reason = outcome.Reason.Error()
	}

	var runErr error
	if !args.DryRun && !outcome.Log.IsEmpty() {
		start := time.Now()
		report, err := backend.Commit(ctx, outcome.Log)
		recorder.ObserveCommit(report, time.Since(start))
		result.Commit = &report
		if err != nil {
			runErr = sysError(fmt.Errorf("commit: %w", err))
		} else if key, err := a.archiveLog(ctx, archiveKind, dataDir, args, outcome); err != nil {
			runErr = sysError(err)
		} else {
			result.Archive = key
		}
	}

	if a.settings.MetricsFile != "" {
		if err := recorder.WriteTextfile(a.settings.MetricsFile); err != nil && runErr == nil {
			runErr = sysError(fmt.Errorf("write metrics: %w", err))
		}
	}

	if err := a.printApply(cmd.OutOrStdout(), result); err != nil && runErr == nil {
		runErr = sysError(err)
	}
	return runErr
}

// archiveLog stores the committed log in the configured sink and returns its
// key, or "" when archiving is off.
func (a *app) archiveLog(ctx context.Context, kind, dataDir string, args types.Arguments, o command.Outcome) (string, error) {
	dir, err := paths.ResolveArchiveDir(dataDir, a.settings.ArchiveDir)
	if err != nil {
		return "", fmt.Errorf("resolve archive dir: %w", err)
	}
	sink, err := archive.Open(ctx, kind, dir)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	if sink == nil {
		return "", nil
	}
	key := archive.Key(args.Model, string(o.Action), time.Now())
	if err := archive.Write(ctx, sink, key, o.Log); err != nil {
		return "", err
	}
	a.logger.Info("log archived", "kind", kind, "key", key)
	return key, nil
}

func (a *app) printApply(w io.Writer, r applyResult) error {
	if a.flags.jsonMode {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if r.Transactions == 0 {
		if r.Reason != "" {
			fmt.Fprintf(w, "no changes: %s\n", r.Reason)
		} else {
			fmt.Fprintln(w, "no changes")
		}
		return nil
	}
	fmt.Fprintf(w, "%d transactions built\n", r.Transactions)
	switch {
	case r.DryRun:
		fmt.Fprintln(w, "dry run: nothing committed")
	case r.Commit != nil:
		fmt.Fprintf(w, "%d committed, %d failed, %d skipped\n", r.Commit.Committed, r.Commit.Failed, r.Commit.Skipped)
	}
	if r.Archive != "" {
		fmt.Fprintf(w, "archived as %s\n", r.Archive)
	}
	return nil
}

// storeError classifies an attach failure: a bad model name is the user's,
// anything else is a system error.
func storeError(step string, err error) error {
	err = fmt.Errorf("%s: %w", step, err)
	if errors.Is(err, store.ErrModelRequired) || errors.Is(err, store.ErrInvalidModel) {
		return userError(err)
	}
	return sysError(err)
}
