// Package validation wraps go-playground/validator and converts failures into domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"trally-server/internal/domain"
)

// 출석부 일정 날짜: "1/11", "12/3"
var monthDayRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			name = fld.Tag.Get("form")
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("monthday", func(fl validator.FieldLevel) bool {
		return monthDayRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("mark", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case domain.MarkNone, domain.MarkPresent, domain.MarkAbsent:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{v: v}
}

// Validate 실패 시 domain.ErrValidation 종류 에러. Fields 키는 json 이름
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// MonthDay 단독 검사용 (서비스 계층에서 직접 호출)
func MonthDay(s string) bool { return monthDayRe.MatchString(strings.TrimSpace(s)) }

func (v *Validator) formatError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+fields[k])
	}
	return domain.ValidationFields(strings.Join(parts, "; "), fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "eqfield":
		return "must match " + e.Param()
	case "monthday":
		return "must look like M/D (e.g. 1/11)"
	case "mark":
		return "must be empty, O or X"
	default:
		return "is invalid"
	}
}
