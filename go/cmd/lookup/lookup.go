package lookup

import (
	"os"

	"github.com/pkg/errors"

	ferrox "github.com/ferrox-re/ferrox/go"
	"github.com/ferrox-re/ferrox/go/cmd"
	"github.com/ferrox-re/ferrox/go/ui"
)

func Main(args []string) {
	c := cmd.NewFerroxCmd()
	c.Usage = " <addr> [addr...]"
	c.Run = func(s *ferrox.Session, args []string) error {
		if len(args) == 0 {
			c.Flags.Usage()
			return errors.New("no addresses given")
		}
		for _, arg := range args {
			addr, err := cmd.ParseAddr(arg)
			if err != nil {
				return err
			}
			ui.PrintAnnotation(c.Stdout, s.Describe(addr), c.Config.Color)
		}
		return nil
	}
	os.Exit(c.Main(args))
}

func init() { cmd.Register("lookup", "show the segment and known types at addresses", Main) }
