package booking

import (
	"regexp"
	"strings"

	"github.com/intercity-transit/service-reservation/internal/domain"
)

// phonePattern matches the +7 DDD DDD-DD-DD contact format exactly.
var phonePattern = regexp.MustCompile(`^\+7 \d{3} \d{3}-\d{2}-\d{2}$`)

// emailPattern restricts the local part to letters, digits and . _ + -.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`)

// allowedEmailDomains is the fixed allow-list of accepted mail providers.
var allowedEmailDomains = []string{"mail.ru", "inbox.ru", "yandex.ru", "gmail.com"}

// ValidatePhone checks the passenger phone against the +7 XXX XXX-XX-XX format.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return domain.NewValidationError("invalid phone format, use: +7 XXX XXX-XX-XX")
	}
	return nil
}

// ValidateEmail checks the passenger email format and that its domain is on
// the allow-list. Domain comparison is case-insensitive.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return invalidEmailError()
	}

	at := strings.LastIndex(email, "@")
	emailDomain := email[at+1:]
	for _, allowed := range allowedEmailDomains {
		if strings.EqualFold(emailDomain, allowed) {
			return nil
		}
	}
	return invalidEmailError()
}

func invalidEmailError() error {
	return domain.NewValidationError(
		"invalid email format: the local part may contain latin letters, digits, dots (.), " +
			"underscores (_) and hyphens (-); allowed domains: " + strings.Join(allowedEmailDomains, ", "),
	)
}
