// Command dispatch is an interactive coding-assistant REPL driven by the
// dispatch orchestration engine: user input is routed to an agent, sent
// through the turn loop, and any tool calls run under hook supervision.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
