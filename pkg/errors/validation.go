package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// ValidateFieldName validates a dataset field name supplied by a caller.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidField, "field name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidField, "field name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidField, "field name contains invalid control characters")
		}
	}

	return nil
}

// ValidateColor validates a CSS hex color such as "#4e79a7" or "#ccc".
func ValidateColor(c string) error {
	if c == "" {
		return New(ErrCodeInvalidInput, "color cannot be empty")
	}
	if c[0] != '#' || (len(c) != 4 && len(c) != 7) {
		return New(ErrCodeInvalidInput, "invalid color %q: want #rgb or #rrggbb", c)
	}
	if _, err := colorful.Hex(c); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid color %q", c)
	}
	return nil
}

// ValidatePalette validates every color of an ordered palette.
// An empty palette is rejected since color scales cycle over it.
func ValidatePalette(palette []string) error {
	if len(palette) == 0 {
		return New(ErrCodeInvalidInput, "color palette cannot be empty")
	}
	for _, c := range palette {
		if err := ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDimensions validates a drawing extent. Zero is allowed and means
// "not yet measurable"; negative or non-finite sizes are rejected.
func ValidateDimensions(width, height float64) error {
	if !isFinite(width) || !isFinite(height) {
		return New(ErrCodeInvalidInput, "dimensions must be finite")
	}
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "dimensions cannot be negative (got %gx%g)", width, height)
	}
	return nil
}

// ValidateMargin validates the four margin sides.
func ValidateMargin(top, right, bottom, left float64) error {
	for _, v := range []float64{top, right, bottom, left} {
		if !isFinite(v) || v < 0 {
			return New(ErrCodeInvalidInput, "margin sides must be finite and non-negative")
		}
	}
	return nil
}

// ValidateFilePath validates a local file path given on the command line or
// in a config file. It rejects empty paths and embedded null bytes.
func ValidateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL uses one of the given schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidInput, "URL must use one of the schemes %v", schemes)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
