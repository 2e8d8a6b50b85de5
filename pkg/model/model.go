package model

import "net/url"

// ContactForm carries the fields of the add and edit forms. The same field names are accepted
// by the service and sent by clients.
type ContactForm struct {
	First string `form:"first" json:"first"`
	Last  string `form:"last"  json:"last"`
	Email string `form:"email" json:"email"`
	Phone string `form:"phone" json:"phone"`
}

// Values encodes the form for an application/x-www-form-urlencoded request body.
func (f ContactForm) Values() url.Values {
	return url.Values{
		"first": {f.First},
		"last":  {f.Last},
		"email": {f.Email},
		"phone": {f.Phone},
	}
}

// SigninForm carries the fields of the sign-in form.
type SigninForm struct {
	User string `form:"user" json:"user"`
	Pass string `form:"pass" json:"pass"`
}

// Values encodes the form for an application/x-www-form-urlencoded request body.
func (f SigninForm) Values() url.Values {
	return url.Values{"user": {f.User}, "pass": {f.Pass}}
}

// SignupForm carries the fields of the sign-up form. Pass2 is the repeated password.
type SignupForm struct {
	User  string `form:"user"  json:"user"`
	Pass  string `form:"pass"  json:"pass"`
	Pass2 string `form:"pass2" json:"pass2"`
}

// Values encodes the form for an application/x-www-form-urlencoded request body.
func (f SignupForm) Values() url.Values {
	return url.Values{"user": {f.User}, "pass": {f.Pass}, "pass2": {f.Pass2}}
}
