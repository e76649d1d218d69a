package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewJobValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("job_address", addressValidator),
		},
	}
}

func NewSubmissionValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("development_type", developmentTypeValidator),
		},
	}
}

func NewTicketValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("object_name", objectNameValidator),
		},
	}
}

var addressRegexp = regexp.MustCompile(`^[0-9A-Za-z ,./'#-]+$`)

func addressValidator(fl validator.FieldLevel) bool {
	address := strings.TrimSpace(fl.Field().String())
	if address == "" || utf8.RuneCountInString(address) > 255 {
		return false
	}
	return addressRegexp.MatchString(address)
}

var developmentTypeRegexp = regexp.MustCompile(`^[0-9A-Za-z _-]+$`)

func developmentTypeValidator(fl validator.FieldLevel) bool {
	// blank is allowed here; the requirement gate reports it as a
	// missing-field reason instead of a 400
	developmentType := fl.Field().String()
	if developmentType == "" {
		return true
	}
	return utf8.RuneCountInString(developmentType) <= 100 &&
		developmentTypeRegexp.MatchString(developmentType)
}

func objectNameValidator(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || utf8.RuneCountInString(name) > 255 {
		return false
	}
	return !strings.Contains(name, "..") && !strings.ContainsAny(name, "\\\x00")
}
