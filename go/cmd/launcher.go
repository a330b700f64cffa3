package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type command struct {
	name, desc string
	main       func(args []string)
}

// commands in registration order, which is also the usage order
var commands []command

func Register(name, desc string, main func(args []string)) {
	commands = append(commands, command{name, desc, main})
}

func find(name string) *command {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}

func printCommands(w io.Writer, prog string) {
	width := 0
	for _, c := range commands {
		width = max(width, len(c.name))
	}
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-*s  %s\n", width, c.name, c.desc)
	}
	fmt.Fprintf(w, "\nExample: %s lookup -types types.yaml main.dol 0x80003100\n\n", prog)
}

// Main dispatches os.Args[1] to a registered command. The command sees
// "prog name" as its argv[0].
func Main() {
	if len(os.Args) < 2 {
		printCommands(os.Stderr, os.Args[0])
		os.Exit(1)
	}
	c := find(os.Args[1])
	if c == nil {
		fmt.Fprintf(os.Stderr, "Command '%s' not found.\n\n", os.Args[1])
		printCommands(os.Stderr, os.Args[0])
		os.Exit(1)
	}
	c.main(append([]string{strings.Join(os.Args[:2], " ")}, os.Args[2:]...))
}
