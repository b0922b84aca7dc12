package main

import (
	"os"

	"github.com/envsnap/envsnap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
