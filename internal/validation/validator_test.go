package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trally-server/internal/domain"
	"trally-server/internal/validation"
)

type signupReq struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirm" validate:"eqfield=Password"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type cellReq struct {
	Date string `json:"date" validate:"monthday"`
	Mark string `json:"attendance" validate:"mark"`
	Year int    `json:"year" validate:"gte=2020,lte=2100"`
}

func TestValidator_Success(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(signupReq{Username: "minku", Password: "pw", Confirm: "pw"}))
	assert.NoError(t, v.Validate(cellReq{Date: " 1/11 ", Mark: "", Year: 2020}))
	assert.NoError(t, v.Validate(cellReq{Date: "12/3", Mark: "X", Year: 2100}))
}

func TestValidator_Errors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name  string
		in    any
		field string
	}{
		{"blank username", signupReq{Username: "  ", Password: "pw", Confirm: "pw"}, "username"},
		{"password mismatch", signupReq{Username: "a", Password: "pw", Confirm: "px"}, "confirm"},
		{"bad email", signupReq{Username: "a", Password: "pw", Confirm: "pw", Email: "nope"}, "email"},
		{"padded date", cellReq{Date: "2025/1/11", Mark: "O", Year: 2025}, "date"},
		{"bad mark", cellReq{Date: "1/1", Mark: "Y", Year: 2025}, "attendance"},
		{"year too small", cellReq{Date: "1/1", Year: 2019}, "year"},
		{"year too large", cellReq{Date: "1/1", Year: 2101}, "year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Contains(t, de.Fields, tt.field)
			assert.Contains(t, de.Message, tt.field)
		})
	}
}

func TestMonthDay(t *testing.T) {
	assert.True(t, validation.MonthDay("1/11"))
	assert.True(t, validation.MonthDay("01/1"))
	assert.False(t, validation.MonthDay("1-11"))
	assert.False(t, validation.MonthDay("111/1"))
	assert.False(t, validation.MonthDay(""))
}
