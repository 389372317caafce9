package main

import (
	"os"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/exitcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
