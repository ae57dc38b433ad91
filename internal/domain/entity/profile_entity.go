package entity

import "time"

// Gender of a profile, stored as text.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Profile holds the personal attributes of exactly one User. Its lifetime
// is bound to the owning user: created together, deleted together.
// PersonalIdentificationNumber is globally unique among profiles.
type Profile struct {
	ID                           string
	UserID                       string
	Firstname                    string
	Lastname                     string
	PlaceOfBirth                 string
	DateOfBirth                  time.Time
	Nationality                  string
	Gender                       Gender
	PersonalIdentificationNumber string
	CreatedAt                    time.Time
	CreatedBy                    string
	UpdatedAt                    time.Time
	UpdatedBy                    string
}

// FullName composes "firstname lastname".
func (p *Profile) FullName() string {
	if p.Firstname == "" && p.Lastname == "" {
		return ""
	}
	return p.Firstname + " " + p.Lastname
}
