// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/humantyper/cmd"
)

// Allows mocking os.Exit in tests.
var osExit = os.Exit

func main() {
	// Interrupts cancel the context so a typing session stops between keystrokes.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		code := 1
		if ctx.Err() != nil {
			code = 130
		}
		stop()
		osExit(code)
	}
}
