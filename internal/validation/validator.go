package validation

import (
	"fmt"
	"strings"

	"autoquiz/internal/domain"
	"autoquiz/internal/dto"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs tag-based validation and translates the result into
// domain validation errors.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.NewInternalError("validation failed", err)
	}

	var errs domain.ValidationErrors
	for _, fe := range fieldErrs {
		errs = append(errs, domain.NewValidationError(fieldName(fe), messageFor(fe)))
	}
	return errs
}

// ValidateCreateQuizRequest layers the cross-field answer index check on top
// of the tag-based rules, which cannot compare a field to a sibling's length.
func ValidateCreateQuizRequest(req *dto.CreateQuizRequest) error {
	if err := ValidateStruct(req); err != nil {
		return err
	}

	var errs domain.ValidationErrors
	for i, q := range req.Questions {
		if q.CorrectAnswerIndex >= len(q.Options) {
			errs = append(errs, domain.NewValidationError(
				fmt.Sprintf("questions[%d].correct_answer_index", i),
				fmt.Sprintf("must be less than the number of options (%d)", len(q.Options)),
			))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace looks like "CreateQuizRequest.Questions[0].Options";
	// drop the root struct segment and lowercase it for API consumers.
	parts := strings.SplitN(fe.StructNamespace(), ".", 2)
	name := fe.Field()
	if len(parts) == 2 {
		name = parts[1]
	}
	return strings.ToLower(name)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have at least %s items", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s items", fe.Param())
	case "unique":
		return "must not contain duplicates"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
