package main

// implements the scopejs command line: script runner and repl

import (
	"context"
	"os"
	"os/signal"

	"scopejs/cmd"
)

var VERSION string

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// trap Ctrl+C and call cancel on the context
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		cancel()
	}()
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	cmd.Execute(ctx, VERSION)
}
