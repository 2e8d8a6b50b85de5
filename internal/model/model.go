package model

// Contact is the data structure for a person that a user knows. The Id is unique within the
// contacts of one user only; in the flat-file layout it is the mapping key, which is why it is
// not part of the YAML record.
type Contact struct {
	Id    int64  `json:"id"    yaml:"-"     db:"id"`
	First string `json:"first" yaml:"first" db:"first"`
	Last  string `json:"last"  yaml:"last"  db:"last"`
	Email string `json:"email" yaml:"email" db:"email"`
	Phone string `json:"phone" yaml:"phone" db:"phone"`
}

// Contacts maps contact ids to the contacts of one user.
type Contacts map[int64]Contact

// Credentials maps user names to bcrypt password hashes.
type Credentials map[string]string
