// Package label formats and fits text inside layout cells.
package label

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// charWidth is the approximate advance of one label character.
const charWidth = 6.0

var printer = message.NewPrinter(language.English)

// TreemapVisible reports whether a treemap cell is large enough for text.
func TreemapVisible(w, h float64) bool { return w > 20 && h > 15 }

// IcicleVisible reports whether an icicle cell is tall enough for text.
func IcicleVisible(h float64) bool { return h > 16 }

// Elide shortens name to fit a cell of the given width.
func Elide(name string, width float64) string {
	runes := []rune(name)
	switch {
	case width < 40:
		if len(runes) == 0 {
			return ""
		}
		return string(unicode.ToUpper(runes[0]))
	case width < 80:
		maxLen := int(math.Floor(width / charWidth))
		if len(runes) <= maxLen {
			return name
		}
		keep := max(0, maxLen/2-1)
		return string(runes[:keep]) + "..." + string(runes[len(runes)-keep:])
	case width < 120:
		maxLen := int(math.Floor(width / charWidth))
		if len(runes) <= maxLen {
			return name
		}
		return string(runes[:max(0, maxLen-3)]) + "..."
	}
	return name
}

// Format renders v as a comma-grouped integer.
func Format(v float64) string {
	return printer.Sprintf("%d", int64(round(v)))
}

// Abbreviate renders v with a K or M suffix once it reaches a thousand.
func Abbreviate(v float64) string {
	n := round(v)
	switch a := math.Abs(n); {
	case a >= 1e6:
		return strconv.FormatFloat(n/1e6, 'f', 1, 64) + "M"
	case a >= 1e3:
		return strconv.FormatFloat(n/1e3, 'f', 1, 64) + "K"
	}
	return strconv.FormatInt(int64(n), 10)
}

// Value formats v for a cell of the given width.
func Value(v, width float64) string {
	if width < 60 {
		return Abbreviate(v)
	}
	return Format(v)
}

// Number renders v in its shortest exact form.
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Decimal renders v grouped with the given number of decimals.
func Decimal(v float64, decimals int) string {
	if decimals <= 0 {
		return Format(v)
	}
	return printer.Sprintf("%."+strconv.Itoa(decimals)+"f", v)
}

// Tooltip joins a path or category and its formatted value.
func Tooltip(path string, v float64) string {
	return path + "\n" + Format(v)
}

// FontSize picks a font size from the smaller side of a cell.
func FontSize(w, h float64) float64 {
	switch m := math.Min(w, h); {
	case m < 30:
		return 8
	case m < 50:
		return 9.6
	case m < 80:
		return 11.2
	}
	return 12.8
}

// Fit truncates s so that it spans at most width at the given font size.
func Fit(s string, width, size float64) string {
	limit := int(width / (size * 0.6))
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= 3 {
		return ""
	}
	return strings.TrimSpace(string([]rune(s)[:limit-3])) + "..."
}

// round rounds half away from zero and maps non-finite values to 0.
func round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v)
}
