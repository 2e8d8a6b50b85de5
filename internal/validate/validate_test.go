package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/contact-manager/pkg/model"
)

func TestValidUsername(t *testing.T) {
	valid := []string{"user", "monday", "User2", "abcdefghij", "1234"}
	invalid := []string{"", "abc", "abcdefghijk", "monday@", "full name", "über", "user_1", "user\n"}
	for _, s := range valid {
		assert.True(t, ValidUsername(s), "username: %q", s)
	}
	for _, s := range invalid {
		assert.False(t, ValidUsername(s), "username: %q", s)
	}
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("1234", "1234"))
	assert.True(t, ValidPassword("pass123", "pass123"))
	assert.True(t, ValidPassword("abcdefghij", "abcdefghij"))
	assert.False(t, ValidPassword("1234", "12345"))
	assert.False(t, ValidPassword("123", "123"))
	assert.False(t, ValidPassword("abcdefghijk", "abcdefghijk"))
	assert.False(t, ValidPassword("", ""))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Al"))
	assert.True(t, ValidName("popeye"))
	assert.True(t, ValidName(strings.Repeat("a", 29)))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("p"))
	assert.False(t, ValidName(strings.Repeat("a", 30)))
	assert.False(t, ValidName("pop@12"))
	assert.False(t, ValidName("full name"))
	assert.False(t, ValidName("Zoë"))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("email@address.com"))
	assert.True(t, ValidEmail("pop@eye.com"))
	assert.True(t, ValidEmail("first.last@mail.example.org"))
	assert.True(t, ValidEmail("x@y.de"))
	assert.False(t, ValidEmail("@eye.com"))
	assert.False(t, ValidEmail("pop@.com"))
	assert.False(t, ValidEmail("pop@eye.c"))
	assert.False(t, ValidEmail("pop@eye.comm"))
	assert.False(t, ValidEmail("popeye.com"))
	// only the end of the address is anchored, so there is no upper length limit
	assert.True(t, ValidEmail(strings.Repeat("a", 300)+"@example.com"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("555-555-5555"))
	assert.False(t, ValidPhone("555-555-555"))
	assert.False(t, ValidPhone("555-555-555232"))
	assert.False(t, ValidPhone("555555555232"))
	assert.False(t, ValidPhone("(555)555-5552"))
	assert.False(t, ValidPhone(" 555-555-5555"))
}

func TestSignupError(t *testing.T) {
	assert.Equal(t, "", SignupError(model.SignupForm{User: "monday", Pass: "1234", Pass2: "1234"}))
	assert.Equal(t, InvalidUsername, SignupError(model.SignupForm{User: "monday@", Pass: "1234", Pass2: "1234"}))
	assert.Equal(t, InvalidPassword, SignupError(model.SignupForm{User: "monday", Pass: "1234", Pass2: "12345"}))
	// the password is reported first when both are wrong
	assert.Equal(t, InvalidPassword, SignupError(model.SignupForm{User: "no", Pass: "1", Pass2: "1"}))
}

func TestContactError(t *testing.T) {
	valid := model.ContactForm{First: "dude", Last: "man", Email: "email@address.com", Phone: "555-555-5555"}
	assert.Equal(t, "", ContactError(valid))

	tests := []struct {
		name   string
		modify func(f *model.ContactForm)
		want   string
	}{
		{"blank first name", func(f *model.ContactForm) { f.First = "" }, InvalidFirstName},
		{"invalid first name", func(f *model.ContactForm) { f.First = "pop@12" }, InvalidFirstName},
		{"short last name", func(f *model.ContactForm) { f.Last = "p" }, InvalidLastName},
		{"long last name", func(f *model.ContactForm) { f.Last = strings.Repeat("popeye", 6) }, InvalidLastName},
		{"invalid email", func(f *model.ContactForm) { f.Email = "@eye.com" }, InvalidEmail},
		{"invalid phone", func(f *model.ContactForm) { f.Phone = "(555)555-5552" }, InvalidPhone},
		{"first name wins", func(f *model.ContactForm) { f.First = ""; f.Phone = "" }, InvalidFirstName},
		{"email before phone", func(f *model.ContactForm) { f.Email = ""; f.Phone = "" }, InvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.modify(&form)
			assert.Equal(t, tt.want, ContactError(form))
		})
	}
}
