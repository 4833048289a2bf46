package main

import (
	"fmt"
	"os"

	"portal_automation/presentation/runner"
)

func main() {
	r, err := runner.NewRunner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if err := r.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
