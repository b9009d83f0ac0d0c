package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/fxl/formula"
	"github.com/ardnew/fxl/log"
)

// Eval evaluates a single formula expression. The expression is given as
// a positional argument, or read from stdin when given as "-". Parameters
// are loaded from an optional YAML (or JSON) file mapping names to
// values.
type Eval struct {
	Expression string `arg:"" help:"Formula expression, or '-' for stdin"       name:"expression"`
	Params     string `       help:"YAML/JSON file of parameter values" short:"p" type:"existingfile" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	params, err := e.loadParams()
	if err != nil {
		return err
	}

	engine := formula.New(formula.WithLogger(log.Default()))

	var result any

	if e.Expression == "-" {
		result, err = engine.EvaluateReader(ctx, os.Stdin, params)
	} else {
		result, err = engine.Evaluate(ctx, e.Expression, params)
	}

	if err != nil {
		// Spreadsheet-visible kinds print as their short code so the
		// output matches what a cell would show.
		ferr := &formula.Error{}
		if errors.As(err, &ferr) {
			fmt.Println(ferr.Kind().Code())
		}

		return ErrEvaluate.Wrap(err).
			With(slog.String("expression", e.Expression))
	}

	fmt.Println(formula.Format(result))

	return nil
}

// loadParams decodes the parameter file into an environment map.
// YAML is a superset of JSON, so either encoding is accepted.
func (e *Eval) loadParams() (map[string]any, error) {
	if e.Params == "" {
		return nil, nil
	}

	data, err := os.ReadFile(e.Params)
	if err != nil {
		return nil, ErrReadParams.Wrap(err).
			With(slog.String("path", e.Params))
	}

	params := make(map[string]any)

	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, ErrDecodeParams.Wrap(err).
			With(slog.String("path", e.Params))
	}

	return params, nil
}
