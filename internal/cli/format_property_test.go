package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any amount, FormatCurrency should:
// 1. Have exactly 2 decimal places
// 2. Group the integer part in threes with commas
// 3. Preserve the numeric value when parsed back
func TestProperty_CurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	groupPattern := regexp.MustCompile(`^\d{1,3}(,\d{3})*$`)

	properties.Property("FormatCurrency produces grouped two-decimal output", prop.ForAll(
		func(amount float64) bool {
			if math.IsNaN(amount) || math.IsInf(amount, 0) {
				return true
			}
			if math.Abs(amount) > 1e12 {
				return true
			}

			formatted := FormatCurrency(amount)

			numPart := strings.TrimPrefix(formatted, "-")
			parts := strings.Split(numPart, ".")
			if len(parts) != 2 || len(parts[1]) != 2 {
				t.Logf("expected two decimal places for %f, got %s", amount, formatted)
				return false
			}
			if !groupPattern.MatchString(parts[0]) {
				t.Logf("bad grouping for %f: %s", amount, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatCurrency preserves value", prop.ForAll(
		func(amount float64) bool {
			if math.IsNaN(amount) || math.IsInf(amount, 0) {
				return true
			}

			formatted := FormatCurrency(amount)
			parsed, err := strconv.ParseFloat(strings.ReplaceAll(formatted, ",", ""), 64)
			if err != nil {
				t.Logf("could not parse back %s: %v", formatted, err)
				return false
			}

			rounded := math.Round(amount*100) / 100
			if math.Abs(parsed-rounded) > 0.01 {
				t.Logf("value not preserved: original=%f formatted=%s parsed=%f", amount, formatted, parsed)
				return false
			}
			return true
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

func TestFormatCurrencyExamples(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{5, "5.00"},
		{1234.5, "1,234.50"},
		{-1234.5, "-1,234.50"},
		{1000000, "1,000,000.00"},
		{999.999, "1,000.00"},
	}
	for _, tc := range tests {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("hello world", 8); got != "hello..." {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString = %q", got)
	}
}

func TestFormatStars(t *testing.T) {
	if got := formatStars(3); got != "★★★☆☆" {
		t.Errorf("formatStars(3) = %q", got)
	}
	if got := formatStars(0); got != "☆☆☆☆☆" {
		t.Errorf("formatStars(0) = %q", got)
	}
	if got := formatStars(7); got != "★★★★★" {
		t.Errorf("formatStars(7) = %q", got)
	}
}
