// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/infrastructure/google"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"
)

// flags are the command line flags for the attendance service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the attendance service.
type environment struct {
	Port                    string
	NatsURL                 string
	NatsTimeout             time.Duration
	NatsMaxReconnect        int
	NatsReconnectWait       time.Duration
	Google                  google.Config
	MigrationBatchSize      int
	MigrationLedgerDisabled bool
}

// parseFlags parses command line flags for the attendance service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// The debug flag sets the log level read by [logging.InitStructureLogConfig].
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the attendance service
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	return environment{
		Port:                    port,
		NatsURL:                 natsURL,
		NatsTimeout:             durationEnv("NATS_TIMEOUT", 10*time.Second),
		NatsMaxReconnect:        intEnv("NATS_MAX_RECONNECT", 3),
		NatsReconnectWait:       durationEnv("NATS_RECONNECT_WAIT", 2*time.Second),
		Google:                  parseGoogleConfig(),
		MigrationBatchSize:      intEnv("MIGRATION_BATCH_SIZE", constants.DefaultMigrationBatchSize),
		MigrationLedgerDisabled: os.Getenv("MIGRATION_LEDGER_DISABLED") == "true",
	}
}

// parseGoogleConfig parses the Google API client configuration. Exactly one
// credential source is used: a static token, a service account file, or the
// application default credentials.
func parseGoogleConfig() google.Config {
	return google.Config{
		CredentialsFile:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ImpersonateSubject: os.Getenv("GOOGLE_IMPERSONATE_SUBJECT"),
		AccessToken:        os.Getenv("GOOGLE_ACCESS_TOKEN"),
		FormsBaseURL:       os.Getenv("GOOGLE_FORMS_BASE_URL"),
		DriveBaseURL:       os.Getenv("GOOGLE_DRIVE_BASE_URL"),
		Timeout:            durationEnv("GOOGLE_API_TIMEOUT", google.DefaultClientTimeout),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.With(logging.ErrKey, err, "key", key, "value", raw).Warn("invalid duration, using default")
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		slog.With(logging.ErrKey, err, "key", key, "value", raw).Warn("invalid integer, using default")
		return fallback
	}
	return n
}
