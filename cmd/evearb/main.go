package main

import (
	"fmt"
	"os"

	"github.com/PVAGR/eve-arbitrage-bot/internal/adapters/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
