package entity

import "time"

type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Profile is the personal part of an account. City is nil when the name
// given at write time did not resolve to a seeded city.
type Profile struct {
	FirstName   string
	LastName    string
	Description string
	Gender      Gender
	DateOfBirth time.Time
	City        *City
}

// Age is derived from DateOfBirth at read time and never stored.
func (p Profile) Age(now time.Time) int {
	if p.DateOfBirth.IsZero() {
		return 0
	}
	age := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		age--
	}
	return age
}

// ProfileChanges is a partial update; nil fields are left untouched.
type ProfileChanges struct {
	FirstName   *string
	LastName    *string
	Description *string
	Gender      *Gender
	DateOfBirth *time.Time
	City        *string
}

// Empty reports whether no field is set.
func (c ProfileChanges) Empty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Description == nil &&
		c.Gender == nil && c.DateOfBirth == nil && c.City == nil
}
