package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var rePhoneLike = regexp.MustCompile(`^\+?[0-9][0-9 ().\-]{5,}$`)

// NormalizePhone formats phone as E.164, reading national numbers in region.
// It returns "" when the input is not a phone number.
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" || !rePhoneLike.MatchString(phone) {
		return ""
	}

	parsedNumber, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil {
		return ""
	}
	return phonenumbers.Format(parsedNumber, phonenumbers.E164)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeContact normalizes a phone-or-email contact. Values that are neither
// are only whitespace-normalized.
func NormalizeContact(contact, region string) string {
	contact = TrimAndNormalize(contact)
	if contact == "" {
		return ""
	}
	if strings.Contains(contact, "@") {
		return NormalizeEmail(contact)
	}
	if phone := NormalizePhone(contact, region); phone != "" {
		return phone
	}
	return contact
}
