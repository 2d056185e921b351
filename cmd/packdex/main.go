package main

import (
	"os"

	"packdex/internal/cli"
	apperrors "packdex/pkg/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(apperrors.ExitCode(err))
	}
}
