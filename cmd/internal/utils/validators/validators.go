package validators

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"qualiobra/cmd/internal/utils"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 64

	YearMonthLayout = "2006-01"
	DateLayout      = "2006-01-02"
)

var (
	specialRegex = regexp.MustCompile(`[\\^$*.\[\]{}()?"!@#%&/\\,><':;|_~` + "`" + `=+\-]`)
	hasSpaces    = regexp.MustCompile(`\s+`)
)

// New builds the validator used by every service, with field errors keyed by
// their JSON names.
func New() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("strongpassword", StrongPassword)
	_ = validate.RegisterValidation("nodupes", NoDupes)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
	_ = validate.RegisterValidation("cnpj", CNPJ)
	_ = validate.RegisterValidation("yearmonth", YearMonth)
	_ = validate.RegisterValidation("isodate", ISODate)
	_ = validate.RegisterValidation("decimalpos", NonNegativeDecimal)
	return validate
}

// StrongPassword mirrors the identity provider password policy in one tag.
func StrongPassword(fl validator.FieldLevel) bool {
	password, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	length := len(password)
	if length < PasswordMinLength || length > PasswordMaxLength {
		return false
	}

	hasSpecial := specialRegex.MatchString(password)
	var hasUpper, hasLower, hasDigit bool

	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true

		case unicode.IsLower(ch):
			hasLower = true

		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

// NoWhiteSpaces returns false if the string contains any whitespace (rejecting the user input).
func NoWhiteSpaces(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	str := field.String()
	return !hasSpaces.MatchString(str)
}

// NoDupes rejects slices with repeated elements. With a parameter, e.g.
// nodupes=Code, elements are compared by that field and nil pointers are
// skipped.
func NoDupes(fl validator.FieldLevel) bool {
	slice := fl.Field()
	if slice.Kind() != reflect.Slice {
		log.Warnf("validator 'nodupes' applied to non-slice type: %s\n", slice.Kind().String())
		return false
	}

	key := fl.Param()
	length := slice.Len()
	seen := make(map[any]bool, length)
	for i := 0; i < length; i++ {
		elem := slice.Index(i)
		if key != "" {
			if elem.Kind() == reflect.Ptr {
				if elem.IsNil() {
					continue
				}
				elem = elem.Elem()
			}
			if elem.Kind() != reflect.Struct {
				log.Warnf("validator 'nodupes=%s' applied to non-struct elements: %s\n", key, elem.Kind().String())
				return false
			}
			elem = elem.FieldByName(key)
			if !elem.IsValid() {
				log.Warnf("validator 'nodupes=%s': no such field\n", key)
				return false
			}
		}

		val := elem.Interface()
		if _, exists := seen[val]; exists {
			return false
		}
		seen[val] = true
	}
	return true
}

// CNPJ accepts both the bare 14 digits and the punctuated form.
func CNPJ(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return utils.IsCNPJValid(utils.NormalizeCNPJ(val))
}

func YearMonth(fl validator.FieldLevel) bool {
	return parses(fl, YearMonthLayout)
}

func ISODate(fl validator.FieldLevel) bool {
	return parses(fl, DateLayout)
}

// NonNegativeDecimal validates decimal strings such as "12.5" used for quantities and prices.
func NonNegativeDecimal(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	d, err := decimal.NewFromString(val)
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

func parses(fl validator.FieldLevel, layout string) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(layout, val)
	return err == nil
}

