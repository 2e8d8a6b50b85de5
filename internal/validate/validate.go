// Package validate checks the shape of the values users type into the sign-up and contact forms.
// All functions are pure and accept any string.
package validate

import (
	"regexp"
	"unicode/utf8"

	"gitlab.com/dirk.krummacker/contact-manager/pkg/model"
)

// Messages returned by SignupError and ContactError.
const (
	InvalidPassword  = "Invalid password."
	InvalidUsername  = "Invalid username."
	InvalidFirstName = "Invalid first name (check for length or invalid characters)."
	InvalidLastName  = "Invalid last name (check for length or invalid characters)."
	InvalidEmail     = "Invalid email address."
	InvalidPhone     = "Invalid phone number (format must be 555-555-5555)."
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z]+$`)
	// Only the end is anchored: anything of up to 100 characters may precede the local part.
	emailPattern = regexp.MustCompile(`.{1,100}@.{1,100}\.\w{2,3}$`)
	phonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// ValidUsername reports whether s has 4 to 10 characters, all ASCII letters or digits.
func ValidUsername(s string) bool {
	return len(s) >= 4 && len(s) <= 10 && usernamePattern.MatchString(s)
}

// ValidPassword reports whether both passwords are equal and between 4 and 10 characters long.
func ValidPassword(p1, p2 string) bool {
	n := utf8.RuneCountInString(p1)
	return p1 == p2 && n >= 4 && n <= 10
}

// ValidName reports whether s has 2 to 29 characters, all ASCII letters.
func ValidName(s string) bool {
	return len(s) >= 2 && len(s) <= 29 && namePattern.MatchString(s)
}

// ValidEmail reports whether s loosely looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s has the form 555-555-5555.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// SignupError returns the message for the first problem of a sign-up form, or "" if there is
// none. The password is checked before the username.
func SignupError(form model.SignupForm) string {
	switch {
	case !ValidPassword(form.Pass, form.Pass2):
		return InvalidPassword
	case !ValidUsername(form.User):
		return InvalidUsername
	}
	return ""
}

// ContactError returns the message for the first problem of a contact form, or "" if there is
// none. Fields are checked in the order first name, last name, email, phone.
func ContactError(form model.ContactForm) string {
	switch {
	case !ValidName(form.First):
		return InvalidFirstName
	case !ValidName(form.Last):
		return InvalidLastName
	case !ValidEmail(form.Email):
		return InvalidEmail
	case !ValidPhone(form.Phone):
		return InvalidPhone
	}
	return ""
}
