package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ValidationRule registers one custom tag or struct rule on a validator.
type ValidationRule struct {
	Rule func(v *validator.Validate)
}

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(errors.Wrapf(err, "register validation %q", tag))
		}
	}
}

// Rules returns the custom rules understood by the domain struct tags.
func Rules() []ValidationRule {
	return []ValidationRule{
		{Rule: registerFn("not_blank", notBlankValidator)},
		{Rule: registerFn("job_status", jobStatusValidator)},
		{Rule: registerFn("candidate_stage", stageValidator)},
		{Rule: registerFn("question_type", questionTypeValidator)},
		{Rule: func(v *validator.Validate) {
			v.RegisterStructValidation(questionStructLevel, Question{})
		}},
	}
}

// NewValidator returns a validator with every domain rule registered. It
// panics if a rule cannot be registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	for _, r := range Rules() {
		r.Rule(v)
	}
	return v
}

func notBlankValidator(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func jobStatusValidator(fl validator.FieldLevel) bool {
	return JobStatus(fl.Field().String()).Valid()
}

func stageValidator(fl validator.FieldLevel) bool {
	return Stage(fl.Field().String()).Valid()
}

func questionTypeValidator(fl validator.FieldLevel) bool {
	return QuestionType(fl.Field().String()).Valid()
}

// questionStructLevel enforces the shape of each variant: choice kinds need
// options, other kinds must not carry any, and numeric bounds must be ordered.
func questionStructLevel(sl validator.StructLevel) {
	q := sl.Current().Interface().(Question)
	switch {
	case q.Type.IsChoice() && len(q.Options) == 0:
		sl.ReportError(q.Options, "Options", "options", "choice_options", "")
	case !q.Type.IsChoice() && len(q.Options) > 0:
		sl.ReportError(q.Options, "Options", "options", "no_options", "")
	}
	if q.Type != QuestionNumeric && (q.Min != nil || q.Max != nil) {
		sl.ReportError(q.Min, "Min", "min", "numeric_bounds", "")
	}
	if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
		sl.ReportError(q.Max, "Max", "max", "min_le_max", "")
	}
}
