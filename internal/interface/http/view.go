package handlers

import (
	"time"

	"github.com/oksasatya/identity-service/internal/domain/entity"
)

// userView is the outward shape of a user; the credential hash never
// leaves the service.
type userView struct {
	ID                     string       `json:"id"`
	Username               string       `json:"username"`
	Email                  string       `json:"email"`
	Enabled                bool         `json:"enabled"`
	PasswordMustBeModified bool         `json:"password_must_be_modified"`
	Roles                  []string     `json:"roles"`
	Profile                *profileView `json:"profile,omitempty"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

type profileView struct {
	Firstname                    string        `json:"firstname"`
	Lastname                     string        `json:"lastname"`
	PlaceOfBirth                 string        `json:"place_of_birth"`
	DateOfBirth                  time.Time     `json:"date_of_birth"`
	Nationality                  string        `json:"nationality"`
	Gender                       entity.Gender `json:"gender"`
	PersonalIdentificationNumber string        `json:"personal_identification_number"`
}

type roleView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toUserView(u *entity.User) userView {
	v := userView{
		ID:                     u.ID,
		Username:               u.Username,
		Email:                  u.Email,
		Enabled:                u.Enabled,
		PasswordMustBeModified: u.PasswordMustBeModified,
		Roles:                  u.RoleNames(),
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
	if u.Profile != nil {
		v.Profile = &profileView{
			Firstname:                    u.Profile.Firstname,
			Lastname:                     u.Profile.Lastname,
			PlaceOfBirth:                 u.Profile.PlaceOfBirth,
			DateOfBirth:                  u.Profile.DateOfBirth,
			Nationality:                  u.Profile.Nationality,
			Gender:                       u.Profile.Gender,
			PersonalIdentificationNumber: u.Profile.PersonalIdentificationNumber,
		}
	}
	return v
}

func toUserViews(users []entity.User) []userView {
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, toUserView(&users[i]))
	}
	return out
}

func toRoleView(r *entity.Role) roleView {
	return roleView{ID: r.ID, Name: r.Name, Description: r.Description}
}

func toRoleViews(roles []entity.Role) []roleView {
	out := make([]roleView, 0, len(roles))
	for i := range roles {
		out = append(out, toRoleView(&roles[i]))
	}
	return out
}
