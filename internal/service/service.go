// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import "github.com/linuxfoundation/lfx-v2-meeting-attendance-service/pkg/constants"

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// MigrationBatchSize is the number of forms reconciled concurrently during a
	// catalog sweep. Zero or less means constants.DefaultMigrationBatchSize.
	MigrationBatchSize int
}

func (c ServiceConfig) batchSize() int {
	if c.MigrationBatchSize <= 0 {
		return constants.DefaultMigrationBatchSize
	}
	return c.MigrationBatchSize
}
