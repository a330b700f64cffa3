package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"

	ferrox "github.com/ferrox-re/ferrox/go"
)

var errQuit = errors.New("quit")

// Repl answers address queries against a session.
type Repl struct {
	s     *ferrox.Session
	out   io.Writer
	color bool
	parse func(string) (uint64, error)
}

func NewRepl(s *ferrox.Session, out io.Writer, parse func(string) (uint64, error)) *Repl {
	return &Repl{s: s, out: out, color: s.Config().Color, parse: parse}
}

func (r *Repl) help() {
	fmt.Fprint(r.out, `Commands:
  describe|d <addr>    segments and types at addr
  segments|s           list segments
  types|t              list known types
  read|x <addr> [n]    hexdump n (default 64) bytes at addr
  help|?               this text
  quit|q               exit
`)
}

// Exec runs a single command line.
func (r *Repl) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "describe", "d":
		if len(fields) < 2 {
			return errors.New("usage: describe <addr>")
		}
		for _, arg := range fields[1:] {
			addr, err := r.parse(arg)
			if err != nil {
				return err
			}
			PrintAnnotation(r.out, r.s.Describe(addr), r.color)
		}
	case "segments", "s":
		PrintSegments(r.out, r.s.Segments(), r.color)
	case "types", "t":
		PrintTypes(r.out, r.s, r.color)
	case "read", "x":
		if len(fields) < 2 {
			return errors.New("usage: read <addr> [n]")
		}
		addr, err := r.parse(fields[1])
		if err != nil {
			return err
		}
		n := uint64(64)
		if len(fields) > 2 {
			if n, err = strconv.ParseUint(fields[2], 0, 64); err != nil {
				return errors.Errorf("invalid length %q", fields[2])
			}
		}
		p, err := r.s.Read(addr, n)
		if err != nil {
			return err
		}
		PrintHex(r.out, p)
	case "help", "?":
		r.help()
	case "quit", "q", "exit":
		return errQuit
	default:
		return errors.Errorf("unknown command %q, try help", fields[0])
	}
	return nil
}

// Run reads commands until EOF or quit. History is kept in the user
// cache folder.
func (r *Repl) Run() error {
	configDirs := configdir.New("ferrox", "repl")
	cacheDir := configDirs.QueryCacheFolder()
	historyPath := ""
	if err := cacheDir.MkdirAll(); err == nil {
		historyPath = filepath.Join(cacheDir.Path, "history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		HistoryFile:     historyPath,
	})
	if err != nil {
		return errors.Wrap(err, "failed to start readline")
	}
	defer rl.Close()
	r.out = rl.Stdout()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.WithStack(err)
		}
		if err := r.Exec(line); err == errQuit {
			return nil
		} else if err != nil {
			fmt.Fprintf(rl.Stderr(), "error: %s\n", err)
		}
	}
}
