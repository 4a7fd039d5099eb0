// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger configures named loggers from a small set of toggles.
// A Registry hands out one Logger per name, each writing human readable lines
// to a colored console stream and/or a size-rotated log file.
package logger
