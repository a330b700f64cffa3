package models

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// PrintFlags writes flag help with names and defaults aligned, wrapping
// usage text at 80 columns.
func PrintFlags(w io.Writer, flags []*flag.Flag) {
	wname, wdef := 0, 0
	for _, f := range flags {
		if len(f.Name) > wname {
			wname = len(f.Name)
		}
		if len(f.DefValue) > wdef {
			wdef = len(f.DefValue)
		}
	}
	wdesc := 80 - wname - wdef - 7
	lpad := strings.Repeat(" ", wname+wdef+7)

	for _, f := range flags {
		fmt.Fprintf(w, "  -%-*s", wname, f.Name)
		def := "  "
		if f.DefValue != "" && f.DefValue != "[]" {
			def = "(" + f.DefValue + ")"
		}
		fmt.Fprintf(w, " %-*s ", wdef+2, def)

		words := strings.Fields(f.Usage)
		line := ""
		first := true
		flush := func() {
			if !first {
				fmt.Fprint(w, lpad)
			}
			fmt.Fprintln(w, line)
			line = ""
			first = false
		}
		for _, word := range words {
			if line != "" && len(line)+1+len(word) > wdesc {
				flush()
			}
			if line != "" {
				line += " "
			}
			line += word
		}
		flush()
	}
}
