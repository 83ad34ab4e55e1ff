package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"scopejs/eval"
)

var LOGO = `
                                  |
  ___  ___ ___  _ __   ___        | scopejs
 / __|/ __/ _ \| '_ \ / _ \       | version: $VERSION
 \__ \ (_| (_) | |_) |  __/       |
 |___/\___\___/| .__/ \___|       |
               |_|                |
`

func sliceVersion(v string) string {
	m := 10
	if len(v) < 10 {
		m = len(v)
	}
	return v[0:m]
}

func newReplCommand(ctx context.Context, input *Input, version string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Replace(LOGO, "$VERSION", sliceVersion(version), 1))
		rl, err := readline.NewEx(&readline.Config{
			Prompt:      input.cfg.Prompt,
			HistoryFile: input.cfg.HistoryFile,
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		ic, err := eval.NewInteractiveContext(input.options(cmd)...)
		if err != nil {
			return err
		}
		defer ic.Close()
		for ctx.Err() == nil {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			}
			if err != nil {
				break
			}
			evalLine(ic, line, cmd.OutOrStdout(), cmd.ErrOrStderr())
		}
		return nil
	}
}

// evalLine runs one REPL input, printing the result to out and errors
// to errOut.
func evalLine(ic *eval.InteractiveContext, line string, out, errOut io.Writer) {
	if strings.TrimSpace(line) == "" {
		return
	}
	v, errs := ic.Run(line)
	if len(errs) != 0 {
		for _, err := range errs {
			reportError(errOut, err)
		}
		return
	}
	fmt.Fprintln(out, ic.Inspect(v))
}
