// Package validate collects request field problems and reports them as a
// single common.ErrorValidation error.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/go-openapi/strfmt"
)

// Field limits shared by the request handlers.
const (
	NameMax          = 40
	UserNameMax      = 40
	LoginPasswordMin = 12
	LoginPasswordMax = 64
	SecretMax        = 64
	DescriptionMax   = 240
	IconTypeMax      = 260
	URLMax           = 260
	CardFieldMax     = 40
	CCVMin           = 3
	ShortFieldMax    = 10
	EmailMax         = 320
)

// Validator accumulates problems; the zero value is ready to use.
type Validator struct {
	problems []string
}

func (v *Validator) add(field, format string, args ...any) {
	v.problems = append(v.problems, field+": "+fmt.Sprintf(format, args...))
}

// Length requires value to be between min and max characters.
func (v *Validator) Length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		v.add(field, "must be between %d and %d characters", min, max)
	}
}

// MaxLength allows empty values but caps the length.
func (v *Validator) MaxLength(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.add(field, "must be at most %d characters", max)
	}
}

// Email requires a syntactically valid address.
func (v *Validator) Email(field, value string) {
	if !strfmt.IsEmail(value) {
		v.add(field, "must be a valid email address")
	}
}

// OptionalEmail checks value only when it is set.
func (v *Validator) OptionalEmail(field, value string) {
	if value != "" {
		v.Email(field, value)
	}
}

// Positive requires n >= 1.
func (v *Validator) Positive(field string, n int64) {
	if n < 1 {
		v.add(field, "must be a positive integer")
	}
}

// NonNegative allows zero, meaning "not given".
func (v *Validator) NonNegative(field string, n int64) {
	if n < 0 {
		v.add(field, "must not be negative")
	}
}

// Valid reports whether no problem was recorded.
func (v *Validator) Valid() bool {
	return len(v.problems) == 0
}

// Err returns nil or one validation error listing every problem.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return common.NewError(common.ErrorValidation, strings.Join(v.problems, "; "))
}
