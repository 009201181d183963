// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package attendance contains the pure parts of the attendance engine: question
// classification, response normalization, form status decoding and aggregation.
// Nothing in this package performs I/O.
package attendance
