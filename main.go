// Package main is the entry point for the fiddle CLI.
package main

import (
	"fiddle/cli/cmd"
)

func main() {
	cmd.Execute()
}
