package main

import (
	"os"

	"github.com/carthatamaz/cartha/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
