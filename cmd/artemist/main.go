package main

import (
	"os"

	"github.com/Odey340/Artemist/cmd/artemist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
