package entity

import (
	"time"
)

// Account is the aggregate root for the profile domain.
// Password holds a bcrypt hash, never the plain text.
type Account struct {
	ID            string
	Username      string
	Password      string
	Email         string
	IsOpenAccount bool
	PrimeStatus   bool
	CreatedAt     time.Time

	Profile    Profile
	Avatars    []Media // newest first
	BackPad    Media
	Statistics Statistics
	Categories []Category
}

// NewAccountInput carries everything needed to create an account with its dependents.
type NewAccountInput struct {
	Username    string
	Password    string // plain; hashed by the repository
	Email       string
	FirstName   string
	LastName    string
	Gender      Gender
	DateOfBirth time.Time
	City        string
	Description string
}

// Statistic names a counter on the account statistics row.
type Statistic string

const (
	StatisticEvents  Statistic = "events"
	StatisticFriends Statistic = "friends"
)

// Valid reports whether s is a known counter.
func (s Statistic) Valid() bool {
	return s == StatisticEvents || s == StatisticFriends
}

type Statistics struct {
	TotalEvents  int64
	TotalFriends int64
}

type Category struct {
	ID   int64
	Name string
}
