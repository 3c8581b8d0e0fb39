package runner

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/abacus/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "ABACUS_MAX_LINE_SIZE"
)

// SanitizeInput cleans a line of user input by enforcing the size limit,
// validating UTF-8, and stripping dangerous control characters.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, 0)
}

// SanitizeInputLimit is SanitizeInput with an explicit byte limit.
// A non-positive limit falls back to the environment or DefaultMaxInputSize.
func SanitizeInputLimit(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = getMaxInputSize()
	}
	if len(input) > limit {
		// Oversized input is rejected, never truncated.
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", domain.ErrInvalidUTF8
	}

	// Strip control characters except newline, tab and carriage return.
	// This prevents log poisoning and terminal corruption.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
