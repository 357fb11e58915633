package wire

import (
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// validate checks decoded events against the struct tags on the domain types.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("clock30h", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseClock30h(fl.Field().String())
		return err == nil
	})
	return v
}
