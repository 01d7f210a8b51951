// Package main provides the entry point for the donation-docs CLI.
package main

import (
	"fmt"
	"os"

	"fjacquet/donation-docs/cmd/allocate"
	"fjacquet/donation-docs/cmd/generate"
	"fjacquet/donation-docs/cmd/root"
)

func init() {
	root.Cmd.AddCommand(generate.Cmd)
	root.Cmd.AddCommand(allocate.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
