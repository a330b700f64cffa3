package segments

import (
	"os"

	ferrox "github.com/ferrox-re/ferrox/go"
	"github.com/ferrox-re/ferrox/go/cmd"
	"github.com/ferrox-re/ferrox/go/ui"
)

func Main(args []string) {
	c := cmd.NewFerroxCmd()
	c.Run = func(s *ferrox.Session, _ []string) error {
		ui.PrintSegments(c.Stdout, s.Segments(), c.Config.Color)
		return nil
	}
	os.Exit(c.Main(args))
}

func init() { cmd.Register("segments", "list the memory segments of an executable", Main) }
