package services

import (
	"testing"

	apperrors "moneta/internal/errors"
	"moneta/internal/testutil"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_integer", "50000", "50000"},
		{"plain_decimal", "123.45", "123.45"},
		{"dot_grouping", "50.000", "50000"},
		{"comma_grouping", "50,000", "50000"},
		{"dot_grouping_comma_decimal", "1.234,56", "1234.56"},
		{"comma_grouping_dot_decimal", "1,234.56", "1234.56"},
		{"comma_decimal", "12,5", "12.5"},
		{"dot_decimal_two_digits", "12.50", "12.5"},
		{"repeated_grouping", "1.234.567", "1234567"},
		{"surrounding_spaces", " 250 ", "250"},
		{"million_with_both", "1,234,567.89", "1234567.89"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAmount(tc.input)
			testutil.AssertNoError(t, err)
			if got.String() != tc.want {
				t.Errorf("parseAmount(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12a.50"} {
		t.Run("input_"+input, func(t *testing.T) {
			_, err := parseAmount(input)
			testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
		})
	}
}

func TestResolveWalletID(t *testing.T) {
	cases := []struct {
		name          string
		recordID      string
		walletContext string
		want          string
	}{
		{"global_context_keeps_record_wallet", "w1", "global", "w1"},
		{"empty_context_keeps_record_wallet", "w1", "", "w1"},
		{"specific_context_overrides", "w1", "w2", "w2"},
		{"specific_context_assigns_unassigned", "", "w2", "w2"},
		{"global_sentinel_never_stored", "global", "global", ""},
		{"global_context_case_insensitive", "w1", "GLOBAL", "w1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveWalletID(tc.recordID, tc.walletContext); got != tc.want {
				t.Errorf("resolveWalletID(%q, %q) = %q, want %q", tc.recordID, tc.walletContext, got, tc.want)
			}
		})
	}
}
