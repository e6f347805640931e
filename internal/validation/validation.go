package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Tell the validator to use the JSON tag as the “field name”
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Attachment IDs validate as their canonical string
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		id := v.Interface().(uuid.UUID)
		if id.IsNil() {
			return ""
		}
		return id.String()
	}, uuid.UUID{})

	// imagepath: a file name or relative path with an optimisable image extension
	if err := validate.RegisterValidation("imagepath", func(fl validator.FieldLevel) bool {
		p := fl.Field().String()
		if strings.ContainsRune(p, 0) {
			return false
		}
		f, ok := model.FormatFromPath(p)
		return ok && f.IsSource()
	}); err != nil {
		panic(err)
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToJson maps each failing field to the tag it failed.
func ErrorsToJson(validationErrs error) (string, error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(validationErrs, &fieldErrs) {
		return "", validationErrs
	}
	errsMap := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	errsJson, err := json.Marshal(errsMap)
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
