// Package main is the entry point for the touchline server.
package main

import (
	"os"

	"github.com/touchline-tv/touchline/cmd/touchline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
