package main

import (
	"github.com/ferrox-re/ferrox/go/cmd"

	_ "github.com/ferrox-re/ferrox/go/cmd/lookup"
	_ "github.com/ferrox-re/ferrox/go/cmd/repl"
	_ "github.com/ferrox-re/ferrox/go/cmd/segments"
)

func main() { cmd.Main() }
