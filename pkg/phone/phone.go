// Package phone normalizes phone numbers returned by SMS providers.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers without a leading '+'
const DefaultRegion = "US"

// ErrInvalidPhoneNumber is returned when a phone number cannot be parsed or validated.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// Normalize parses and validates a phone number using libphonenumber and
// returns it in E.164 format. Numbers without a '+' prefix are read in
// defaultRegion (DefaultRegion when empty).
func Normalize(input, defaultRegion string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidPhoneNumber
	}

	plusCount := 0
	for _, r := range input {
		switch {
		case r == '+':
			plusCount++
		case r >= '0' && r <= '9', r == ' ', r == '-', r == '(', r == ')', r == '.':
		default:
			return "", ErrInvalidPhoneNumber
		}
	}
	if plusCount > 1 || (plusCount == 1 && input[0] != '+') {
		return "", ErrInvalidPhoneNumber
	}

	region := ""
	if plusCount == 0 {
		region = strings.ToUpper(defaultRegion)
		if region == "" {
			region = DefaultRegion
		}
	}

	num, err := phonenumbers.Parse(input, region)
	if err != nil {
		return "", ErrInvalidPhoneNumber
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhoneNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Region returns the ISO 3166-1 alpha-2 country code for an E.164
// phone number, or "" if it cannot be determined.
func Region(number string) string {
	num, err := phonenumbers.Parse(number, "")
	if err != nil {
		return ""
	}
	return phonenumbers.GetRegionCodeForNumber(num)
}
