package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	ferrox "github.com/ferrox-re/ferrox/go"
	"github.com/ferrox-re/ferrox/go/models"
)

// FerroxCmd parses the flags shared by every command, loads the binary
// and hands the session to Run.
type FerroxCmd struct {
	Config *models.Config
	Flags  *flag.FlagSet

	// Usage is appended to the usage line after <file>.
	Usage      string
	SetupFlags func() error
	Run        func(s *ferrox.Session, args []string) error

	Session *ferrox.Session
	Stdout  io.Writer
}

func NewFerroxCmd() *FerroxCmd {
	return &FerroxCmd{
		Flags:  flag.NewFlagSet("cli", flag.ExitOnError),
		Stdout: os.Stdout,
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PrintError prints err, and the innermost stack trace if there is one.
func (c *FerroxCmd) PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "Error: %s\n", err)

	var tracer stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			tracer = st
		}
	}
	if tracer == nil {
		return
	}
	for _, f := range tracer.StackTrace() {
		method := fmt.Sprintf("%n", f)
		fmt.Fprintf(w, "%s:%d | %s()\n", f, f, method)
		if method == "main" {
			break
		}
	}
}

// Main runs the command and returns the process exit status.
func (c *FerroxCmd) Main(argv []string) int {
	fs := c.Flags
	verbose := fs.Bool("v", false, "verbose output, including every extracted segment")
	color := fs.Bool("color", isatty.IsTerminal(os.Stdout.Fd()), "colorize output")
	outfile := fs.String("o", "", "redirect log output to file (default stderr)")
	types := fs.String("types", "", "YAML file of typed address ranges (default types.yaml in the user config dir)")
	format := fs.String("format", "auto", "input format: dol, or auto to pick by extension")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file>%s\n\nOptions:\n", argv[0], c.Usage)
		var flags []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
		models.PrintFlags(os.Stderr, flags)
	}
	if c.SetupFlags != nil {
		if err := c.SetupFlags(); err != nil {
			panic(err)
		}
	}
	fs.Parse(argv[1:])

	args := fs.Args()
	if len(args) < 1 {
		fs.Usage()
		return 1
	}

	config := &models.Config{
		Color:     *color,
		Verbose:   *verbose,
		Format:    *format,
		TypesPath: *types,
	}
	if *outfile != "" {
		out, err := os.OpenFile(*outfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			c.PrintError(os.Stderr, errors.WithStack(err))
			return 1
		}
		defer out.Close()
		config.Output = out
	}
	c.Config = config.Init()

	s, err := ferrox.NewSession(args[0], c.Config)
	if err != nil {
		c.PrintError(os.Stderr, err)
		return 1
	}
	c.Session = s
	if c.Run == nil {
		return 0
	}
	if err := c.Run(s, args[1:]); err != nil {
		c.PrintError(os.Stderr, err)
		return 1
	}
	return 0
}

// ParseAddr parses a hex address, with or without a 0x prefix.
func ParseAddr(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	hex := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, errors.Errorf("invalid address %q", s)
	}
	return v, nil
}
