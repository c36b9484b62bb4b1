//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package env reads svbd's environment-variable configuration. Every
// getter falls back to a documented default so a bare `svbd` or
// `svbd-custodian` invocation works without any configuration at all.
package env

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// LogLevel reads SVBD_LOG_LEVEL (DEBUG/INFO/WARN/ERROR,
// case-insensitive), defaulting to slog.LevelWarn.
func LogLevel() slog.Level {
	switch strings.ToUpper(os.Getenv("SVBD_LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ShamirShares reads SVBD_SHAMIR_SHARES, defaulting to 5.
func ShamirShares() int {
	return positiveIntOrDefault("SVBD_SHAMIR_SHARES", 5)
}

// ShamirThreshold reads SVBD_SHAMIR_THRESHOLD, defaulting to 3.
func ShamirThreshold() int {
	return positiveIntOrDefault("SVBD_SHAMIR_THRESHOLD", 3)
}

// TokenLength reads SVBD_CUSTODIAN_TOKEN_LENGTH, defaulting to 24.
func TokenLength() int {
	return positiveIntOrDefault("SVBD_CUSTODIAN_TOKEN_LENGTH", 24)
}

// TokenValidity reads SVBD_CUSTODIAN_TOKEN_VALIDITY as a Go duration
// string (e.g. "30s"), defaulting to 30s.
func TokenValidity() time.Duration {
	raw := os.Getenv("SVBD_CUSTODIAN_TOKEN_VALIDITY")
	if raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return 30 * time.Second
}

// CustodianDataDir reads SVBD_CUSTODIAN_DATA_DIR, defaulting to
// "./svbd-data".
func CustodianDataDir() string {
	if dir := os.Getenv("SVBD_CUSTODIAN_DATA_DIR"); dir != "" {
		return dir
	}
	return "./svbd-data"
}

// ChannelDir reads SVBD_CHANNEL_DIR, defaulting to "./svbd-channel".
func ChannelDir() string {
	if dir := os.Getenv("SVBD_CHANNEL_DIR"); dir != "" {
		return dir
	}
	return "./svbd-channel"
}

// HashSaltLength reads SVBD_HASH_SALT_LENGTH, defaulting to 10.
func HashSaltLength() int {
	return positiveIntOrDefault("SVBD_HASH_SALT_LENGTH", 10)
}

// CustodianPort reads SVBD_CUSTODIAN_PORT, defaulting to 8443.
func CustodianPort() int {
	return positiveIntOrDefault("SVBD_CUSTODIAN_PORT", 8443)
}

// CustodianBackend reads SVBD_CUSTODIAN_BACKEND ("memory" or
// "sqlite"), defaulting to "memory".
func CustodianBackend() string {
	v := strings.ToLower(os.Getenv("SVBD_CUSTODIAN_BACKEND"))
	if v == "sqlite" {
		return "sqlite"
	}
	return "memory"
}

// CustodianSQLitePath reads SVBD_CUSTODIAN_SQLITE_PATH, defaulting to
// "{CustodianDataDir()}/shares.db".
func CustodianSQLitePath() string {
	if p := os.Getenv("SVBD_CUSTODIAN_SQLITE_PATH"); p != "" {
		return p
	}
	return CustodianDataDir() + "/shares.db"
}

// CustodianTLSCertFile and CustodianTLSKeyFile read
// SVBD_CUSTODIAN_TLS_CERT_FILE / SVBD_CUSTODIAN_TLS_KEY_FILE. Both
// empty means the custodian generates an ephemeral self-signed
// certificate at startup instead of loading one from disk.
func CustodianTLSCertFile() string {
	return os.Getenv("SVBD_CUSTODIAN_TLS_CERT_FILE")
}

func CustodianTLSKeyFile() string {
	return os.Getenv("SVBD_CUSTODIAN_TLS_KEY_FILE")
}

func positiveIntOrDefault(name string, def int) int {
	raw := os.Getenv(name)
	if raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}
