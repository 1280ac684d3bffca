// Pathmeta - command line tool for the structured path name format.
//
// Pathmeta parses path names into their metadata fields, builds canonical
// names from fields, and batch-checks manifests of expected metadata.
package main

import (
	"fmt"
	"os"
)

func main() {
	cli := NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
