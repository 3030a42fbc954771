package services

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
)

// parseAmount parses a locale-formatted numeric string into a decimal.
// It accepts both "." and "," as grouping or decimal separators:
//
//	"50000"    -> 50000
//	"50.000"   -> 50000   (single separator followed by a 3-digit group)
//	"1.234,56" -> 1234.56
//	"1,234.56" -> 1234.56
//	"12,5"     -> 12.5
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if cleaned == "" {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount is required")
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: the rightmost is the decimal separator.
		if lastDot > lastComma {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case lastDot >= 0:
		cleaned = normalizeSingleSeparator(cleaned, ".")
	case lastComma >= 0:
		cleaned = normalizeSingleSeparator(cleaned, ",")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount is not a valid number")
	}
	return amount, nil
}

// normalizeSingleSeparator resolves a string containing only one kind of
// separator. Multiple occurrences, or a single occurrence followed by
// exactly three digits, are treated as grouping; otherwise the separator
// is the decimal point.
func normalizeSingleSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	idx := strings.LastIndex(s, sep)
	if len(s)-idx-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

// resolveWalletID applies the selected wallet context to a record's own
// wallet id. The "global" context (or no context) honors the record's own
// value; any other context forces that wallet onto the record. The sentinel
// itself is never stored on a record.
func resolveWalletID(recordWalletID, walletContext string) string {
	ctx := strings.TrimSpace(walletContext)
	if ctx == "" || strings.EqualFold(ctx, globalContext) {
		if strings.EqualFold(recordWalletID, globalContext) {
			return ""
		}
		return recordWalletID
	}
	return ctx
}

const globalContext = "global"
