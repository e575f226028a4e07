package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// dispatcher is the command surface the REPL drives. App satisfies it; tests
// can provide a lightweight stub.
type dispatcher interface {
	isLoggedIn() bool
	help() string
	dispatch(ctx context.Context, cmd string, args []string) error
}

// runREPL reads commands from scanner until EOF or "exit"/"quit".
//
// The first token of a line is the command, the rest are its arguments.
// "help", "exit" and "quit" are handled here; everything else goes to
// d.dispatch, whose error is printed and does not end the loop.
func runREPL(ctx context.Context, d dispatcher, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gcli %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(d.help())
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			if err := d.dispatch(ctx, cmd, args); err != nil {
				printlnFn("Error:", err)
			}
		}
	}
}
