// Package textutils provides text and amount normalization used by the
// spreadsheet readers and the document/detail writers. Spreadsheet exports
// from the upstream systems mix full-width and half-width characters,
// embedded newlines and currency decorations, so every comparison and every
// parsed amount goes through this package first.
package textutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FallbackStem is used when sanitizing leaves nothing usable of a file name.
const FallbackStem = "未命名"

// currencyUnit is the trailing unit marker stripped before parsing amounts.
const currencyUnit = "元"

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	illegalFileRe = regexp.MustCompile(`[\\/:*?"<>|]`)
	nullTokens    = map[string]struct{}{"nan": {}, "none": {}, "null": {}}
	parenStripper = strings.NewReplacer("(", "", ")", "", "（", "", "）", "")
	twoDecimalExp = int32(2)
)

// NormalizeWhitespace collapses runs of whitespace (including newlines) to a
// single space and trims both ends.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// ToHalfWidth maps full-width ASCII-range code points (U+FF01–U+FF5E) to
// their half-width equivalents and the ideographic space U+3000 to a regular
// space. Everything else passes through unchanged.
func ToHalfWidth(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0x3000:
			b.WriteRune(' ')
		case r >= 0xFF01 && r <= 0xFF5E:
			b.WriteRune(r - 0xFEE0)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalizeHeader reduces a header label to its canonical comparison form:
// half-width, newline-free, whitespace-normalized, lower-cased, with all
// parenthesis characters and spaces removed. Two labels match iff their
// canonical forms are identical. The function is idempotent.
func CanonicalizeHeader(label string) string {
	s := ToHalfWidth(label)
	s = strings.ReplaceAll(s, "\n", " ")
	s = NormalizeWhitespace(s)
	s = strings.ToLower(s)
	s = parenStripper.Replace(s)
	return strings.ReplaceAll(s, " ", "")
}

// ParseDecimal converts a raw cell value to an exact decimal. It returns an
// invalid NullDecimal for empty values and the literal tokens "nan", "none"
// and "null" (case-insensitive), and for anything that does not parse. It
// never returns an error: unparseable cells are a row-level condition the
// caller drops with a warning.
//
// Accepted decorations: full-width digits/punctuation, thousands-separator
// commas, a trailing 元 unit marker, embedded spaces, and a fully
// parenthesized value "(x)" meaning -x.
func ParseDecimal(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}
	}
	if _, isNull := nullTokens[strings.ToLower(s)]; isNull {
		return decimal.NullDecimal{}
	}
	s = ToHalfWidth(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, currencyUnit, "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		s = "-" + s[1:len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// QuantizeToCents rounds to exactly two fractional digits, half away from
// zero (commercial rounding, the convention on invoices), not half-even.
func QuantizeToCents(value decimal.Decimal) decimal.Decimal {
	return value.Round(twoDecimalExp)
}

// FormatCurrency quantizes and renders with thousands-group separators and
// exactly two fractional digits, e.g. 1234.5 -> "1,234.50".
func FormatCurrency(value decimal.Decimal) string {
	s := QuantizeToCents(value).StringFixed(twoDecimalExp)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return sign + strings.Join(groups, ",") + "." + fracPart
}

// SanitizeFileStem makes a name safe for use as a file stem: normalized
// whitespace and width, filesystem-illegal characters replaced by
// underscores, trailing periods stripped. Falls back to FallbackStem when
// nothing remains.
func SanitizeFileStem(name string) string {
	s := NormalizeWhitespace(name)
	s = ToHalfWidth(s)
	s = illegalFileRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, ".")
	if s == "" {
		return FallbackStem
	}
	return s
}

// ExtractShortName extracts a short product name using the institution's
// naming pattern (first capture group). When the pattern does not match, or
// matches only whitespace, the full product name is returned; an empty
// product name falls back to FallbackStem.
func ExtractShortName(productName string, pattern *regexp.Regexp) string {
	if productName == "" {
		return FallbackStem
	}
	if pattern == nil {
		return productName
	}
	m := pattern.FindStringSubmatch(productName)
	if len(m) > 1 {
		if short := NormalizeWhitespace(m[1]); short != "" {
			return short
		}
	}
	return productName
}
