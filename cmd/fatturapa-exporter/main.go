package main

import (
	"fmt"
	"os"

	"github.com/rezonia/fatturapa-exporter/cmd/fatturapa-exporter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatturapa-exporter: %v\n", err)
		os.Exit(1)
	}
}
