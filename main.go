package main

import (
	"fmt"
	"os"

	"github.com/zalepa/valdata/cmd"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		cmd.Build(os.Args[2:])
	case "districts":
		cmd.Districts(os.Args[2:])
	case "report":
		cmd.Report(os.Args[2:])
	case "viz":
		cmd.Viz(os.Args[2:])
	case "dedupe":
		cmd.Dedupe(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: valdata <command>\n\nCommands:\n"+
		"  build      Build the longitudinal result tables from the authority's XML files\n"+
		"  districts  Count constituencies per municipality and their seat thresholds\n"+
		"  report     Print majorities, seat totals and turnout of a built dataset\n"+
		"  viz        Chart vote share per party over the cycles\n"+
		"  dedupe     Merge unit names that changed between cycles\n")
}
