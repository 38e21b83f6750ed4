package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tangent/internal/compiler"
	"github.com/roach88/tangent/internal/engine"
	"github.com/roach88/tangent/internal/model"
	"github.com/roach88/tangent/internal/store"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Model string   // evaluate only this model (default: all)
	Bumps []string // var=value overrides of base values
	DB    string   // optional database path for run persistence
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <models-dir>",
		Short: "Evaluate models and their sensitivities",
		Long: `Evaluate model outputs with exact derivatives via dual numbers.

Each output gets its value, its gradient over the model's variables,
and (for order-2 models) the full Hessian. With --db, runs are
persisted for later inspection via 'tangent runs' and 'tangent show'.

Example:
  tangent eval ./models --model swap_pv --bump rate=0.0001 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Model, "model", "", "evaluate only the named model")
	cmd.Flags().StringArrayVar(&opts.Bumps, "bump", nil, "shift a variable's base value (var=delta, repeatable)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "persist runs to this SQLite database")

	return cmd
}

func runEval(opts *EvalOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	bumps, err := parseBumps(opts.Bumps)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --bump", err)
	}

	loadResult, loadErrors := LoadModels(modelsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
		}
		_ = formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	specs, err := selectModels(loadResult.Models, opts.Model)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "model selection", err)
	}

	// Validate before evaluating; the engine assumes resolved models.
	for i := range specs {
		if verrs := compiler.ValidateModel(&specs[i]); len(verrs) > 0 {
			return outputValidationErrors(formatter, len(specs), verrs)
		}
	}

	var st *store.Store
	if opts.DB != "" {
		st, err = store.Open(opts.DB)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening database", err)
		}
		defer st.Close()
	}

	ev := engine.New(engine.UUIDv7Generator{})
	ctx := cmd.Context()

	var runs []*model.Run
	for i := range specs {
		formatter.VerboseLog("Evaluating model: %s", specs[i].Name)

		run, err := ev.Evaluate(ctx, &specs[i], bumps)
		if err != nil {
			var re *engine.RuntimeError
			if errors.As(err, &re) {
				_ = formatter.Error(string(re.Code), re.Message, re.Err)
				return WrapExitError(ExitFailure, "evaluation failed", err)
			}
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitFailure, "evaluation failed", err)
		}

		if st != nil {
			if _, err := st.WriteRun(ctx, run); err != nil {
				_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
				return WrapExitError(ExitCommandError, "persisting run", err)
			}
			formatter.VerboseLog("Persisted run %s", run.ID)
		}

		runs = append(runs, run)
	}

	return outputRuns(formatter, runs)
}

// parseBumps parses repeated var=delta flags into a bump map.
func parseBumps(args []string) (map[string]float64, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bumps := make(map[string]float64, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("bump %q: want var=delta", arg)
		}
		delta, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bump %q: %w", arg, err)
		}
		bumps[name] = delta
	}
	return bumps, nil
}

// selectModels filters the loaded models down to the requested one, or
// returns all of them when no name is given.
func selectModels(models []model.ModelSpec, name string) ([]model.ModelSpec, error) {
	if name == "" {
		return models, nil
	}
	for i := range models {
		if models[i].Name == name {
			return models[i : i+1], nil
		}
	}
	return nil, fmt.Errorf("model %q not found", name)
}

// outputRuns prints evaluated runs in the configured format.
func outputRuns(formatter *OutputFormatter, runs []*model.Run) error {
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s (run %s)\n", run.Model, run.ID)
		for i := range run.Results {
			writeResultText(formatter, &run.Results[i])
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}

// writeResultText prints one result: value, gradient, optional Hessian.
func writeResultText(formatter *OutputFormatter, r *model.Result) {
	fmt.Fprintf(formatter.Writer, "  %s = %s\n", r.Output, model.FormatFloat(r.Value))
	for i, name := range r.Variables {
		fmt.Fprintf(formatter.Writer, "    d/d%s = %s\n", name, model.FormatFloat(r.Gradient[i]))
	}
	if r.Hessian != nil {
		n := len(r.Variables)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				fmt.Fprintf(formatter.Writer, "    d2/d%s d%s = %s\n",
					r.Variables[i], r.Variables[j], model.FormatFloat(r.Hessian[i*n+j]))
			}
		}
	}
}
