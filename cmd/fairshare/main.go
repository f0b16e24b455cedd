// Package main is the entry point for the fairshare CLI.
package main

import (
	"os"

	"github.com/mmynk/fairshare/cmd/fairshare/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
