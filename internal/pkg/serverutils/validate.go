package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts failures into a
// fiber 400 with a readable field list.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, f := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", f.Field(), f.Tag()))
			}
			return fiber.NewError(fiber.StatusBadRequest,
				"validation failed: "+strings.Join(fields, ", "))
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
