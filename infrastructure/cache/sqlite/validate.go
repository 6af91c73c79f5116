// ABOUTME: Key and value validation for the SQLite cache
// ABOUTME: Rejects oversized or malformed input and logs suspicious key patterns

package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"hackerhome-api/core/interfaces"
)

var (
	maxKeyLength   = 255
	maxValueLength = 4 * 1024 * 1024
)

// Queries are parameterized; these patterns are only logged
var suspiciousPatterns = []string{"--", "/*", "*/", ";", "'", "\""}

// ValidateKey rejects empty, oversized or NUL-containing keys
func ValidateKey(key string, logger interfaces.Logger) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long: max %d characters", maxKeyLength)
	}

	if strings.Contains(key, "\x00") {
		return errors.New("key cannot contain null bytes")
	}

	if logger != nil {
		for _, pattern := range suspiciousPatterns {
			if strings.Contains(key, pattern) {
				logger.Warn("Suspicious pattern detected in cache key", map[string]interface{}{
					"pattern":     pattern,
					"key_length":  len(key),
					"key_preview": truncateKey(key),
				})
			}
		}
	}

	return nil
}

// truncateKey returns a safe preview of the key for logging
func truncateKey(key string) string {
	const maxPreview = 50
	if len(key) <= maxPreview {
		return key
	}
	return key[:maxPreview] + "..."
}

// ValidateValue rejects empty or oversized values
func ValidateValue(value []byte) error {
	if len(value) == 0 {
		return errors.New("value cannot be empty")
	}

	if len(value) > maxValueLength {
		return fmt.Errorf("value too large: max %d bytes", maxValueLength)
	}

	return nil
}
