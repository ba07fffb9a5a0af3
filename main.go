package main

import (
	"fmt"
	"os"

	"github.com/zhubert/chatstate/cmd"
	"github.com/zhubert/chatstate/internal/logger"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	defer logger.Close()

	if err := cmd.Execute(); err != nil {
		logger.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
