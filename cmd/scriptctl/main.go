// Command scriptctl is a terminal client for the Script Library API.
//
//	scriptctl [-server URL] <command> [args]
//
// Commands: login, logout, whoami, list [query], show <id>, add, delete <id>.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], newTerminal(os.Stdin, os.Stdout, os.Stderr))
	stop()
	os.Exit(code)
}
