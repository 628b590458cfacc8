// The vtkwrap tool generates C source that exposes a C++ class to a
// scripting runtime, given a JSON description of that class.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"flag"
	log "github.com/golang/glog"
	"github.com/google/subcommands"

	"github.com/kitware/vtkwrap/internal/gen"
	"github.com/kitware/vtkwrap/internal/version"
)

const groupOther = "working with this tool"
const groupGenerate = "generating wrapper source"

func main() {
	ctx := context.Background()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	defaultExplain := commander.Explain
	commander.Explain = func(w io.Writer) {
		fmt.Fprintf(w, "vtkwrap generates C binding source for C++ classes from a JSON class description.\n\n")
		defaultExplain(w)
	}

	commander.Register(commander.HelpCommand(), groupOther)
	commander.Register(commander.FlagsCommand(), groupOther)
	commander.Register(version.Command(), groupOther)

	commander.Register(gen.Command(), groupGenerate)

	flag.Usage = func() {
		commander.HelpCommand().Execute(ctx, flag.CommandLine)
	}

	flag.Parse()

	code := int(commander.Execute(ctx))
	log.Flush()
	os.Exit(code)
}
