package cmd

import (
	"context"

	"github.com/ardnew/fxl/cli/cmd/repl"
	"github.com/ardnew/fxl/log"
)

// Repl starts an interactive evaluation session.
type Repl struct {
	Params string `help:"YAML/JSON file of parameter values" short:"p" type:"existingfile" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	params, err := (&Eval{Params: r.Params}).loadParams()
	if err != nil {
		return err
	}

	return repl.Run(ctx, params, log.Default())
}
