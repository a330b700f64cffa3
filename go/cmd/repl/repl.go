package repl

import (
	"os"

	ferrox "github.com/ferrox-re/ferrox/go"
	"github.com/ferrox-re/ferrox/go/cmd"
	"github.com/ferrox-re/ferrox/go/ui"
)

func Main(args []string) {
	c := cmd.NewFerroxCmd()
	c.Run = func(s *ferrox.Session, _ []string) error {
		return ui.NewRepl(s, c.Stdout, cmd.ParseAddr).Run()
	}
	os.Exit(c.Main(args))
}

func init() { cmd.Register("repl", "interactively query segments and types", Main) }
