// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the operator CLI for attendance forms.
package main

import (
	"fmt"
	"os"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
)

// Version is set at build time.
var Version = "dev"

func main() {
	// Results go to stdout, logs to stderr.
	if os.Getenv("LOG_LEVEL") == "" {
		_ = os.Setenv("LOG_LEVEL", "warn")
	}
	logging.InitStructureLogConfigWriter(os.Stderr)

	if err := newRootCmd(newAttendanceService, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
