package agent

import (
	"net/mail"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Contact holds how the shop reaches an agent. Both fields are optional.
type Contact struct {
	phone string
	email string
}

// NewContact trims and validates contact details.
func NewContact(phone, email string) (Contact, error) {
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)

	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return Contact{}, errs.NewValueIsInvalidErrorWithCause("email", err)
		}
	}
	return Contact{phone: phone, email: email}, nil
}

func (c Contact) Phone() string {
	return c.phone
}

func (c Contact) Email() string {
	return c.email
}
