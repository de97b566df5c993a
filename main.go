package main

import (
	"fmt"
	"os"

	"lifegrid/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lifegrid: %v\n", err)
		os.Exit(1)
	}
}
