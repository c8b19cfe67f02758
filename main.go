// Package main is the entry point for the parity CLI.
package main

import "parity.dev/pkg/parity/cmd"

func main() {
	cmd.Execute()
}
