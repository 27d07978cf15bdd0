package slogobs

import (
	"os"
	"strings"
)

// Format is the output layout of the Handler.
type Format string

const (
	// FormatCompact is one line per record with attributes as a JSON object:
	//	2026-10-16 10:40:35  INFO blueprint generated -> {"blueprint.nodes":7}
	FormatCompact Format = "compact"

	// FormatPretty puts every attribute on its own indented line.
	FormatPretty Format = "pretty"

	// FormatJSON is one JSON object per record, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat maps s to a Format, defaulting to FormatCompact.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads BLUEPRINT_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	if format := os.Getenv("BLUEPRINT_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

func (f Format) String() string {
	return string(f)
}
