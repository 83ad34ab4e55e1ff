package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"scopejs/eval"
)

func newRunCommand(ctx context.Context, input *Input) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && len(input.eval) == 0 {
			return errors.New("nothing to run: give a file or --eval")
		}
		ectx, err := eval.NewContext(input.options(cmd)...)
		if err != nil {
			return err
		}
		defer ectx.Close()

		for _, path := range args {
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrap(err, "read script")
			}
			if err := runSource(ctx, ectx, cmd.ErrOrStderr(), path, string(src)); err != nil {
				return err
			}
		}
		for _, src := range input.eval {
			if err := runSource(ctx, ectx, cmd.ErrOrStderr(), "<eval>", src); err != nil {
				return err
			}
		}
		return nil
	}
}

// runSource evaluates one script and reports its errors to w. The
// returned error only signals failure; the details have been printed.
func runSource(ctx context.Context, ectx *eval.Context, w io.Writer, filename, src string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := ectx.Run(filename, src)
	if err == nil {
		return nil
	}
	reportError(w, err)
	return errors.Errorf("%s failed", filename)
}

func reportError(w io.Writer, err error) {
	switch err := err.(type) {
	case eval.CompileErrors:
		for _, e := range err {
			fmt.Fprintln(w, e)
		}
	case *eval.Exception:
		fmt.Fprintln(w, err.String())
	default:
		fmt.Fprintln(w, err)
	}
}
