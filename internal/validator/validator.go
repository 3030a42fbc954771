// Package validator provides struct validation for service-layer inputs.
package validator

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"moneta/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with all custom validations registered.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("txn_type", validateTransactionType)
		_ = validate.RegisterValidation("hex_color", validateHexColor)
		_ = validate.RegisterValidation("wallet_name", validateWalletName)
	})
	return validate
}

// Struct validates the given struct against its validation tags.
func Struct(s interface{}) error {
	return Get().Struct(s)
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

// validateWalletName rejects the reserved "global" sentinel,
// case-insensitively.
func validateWalletName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	if name == "" {
		return false
	}
	return !strings.EqualFold(name, models.GlobalWalletID)
}
