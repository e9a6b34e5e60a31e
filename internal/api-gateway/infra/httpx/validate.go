package httpx

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldMessages are keyed by the JSON field name that failed, or by
// "field.tag" when one field has several messages.
var fieldMessages = map[string]string{
	"items":        "Items array is required and must contain at least one item",
	"productId":    "Product ID is required for each item",
	"quantity":     "Quantity must be a positive integer",
	"quantity.lte": entity.QuantityTooLargeMessage,
	"email":        "Valid email is required",
	"password":     "Password must be at least 6 characters long",
	"first_name":   "First name must not be empty",
	"last_name":    "Last name must not be empty",
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
			return apperror.Validation(msg)
		}
		if msg, ok := fieldMessages[fe.Field()]; ok {
			return apperror.Validation(msg)
		}
	}
	return apperror.Validation("Validation failed")
}
