package application

import (
	"time"

	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/search"
)

type CityView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Region          string `json:"region"`
	FederalDistrict string `json:"federalDistrict"`
}

type ProfileDetails struct {
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Description string    `json:"description"`
	City        *CityView `json:"city"`
}

type MediaView struct {
	ID        int64     `json:"id"`
	MediaURL  string    `json:"mediaUrl"`
	CreatedAt time.Time `json:"created_at"`
}

type StatisticsView struct {
	TotalEvents  int64 `json:"totalEvents"`
	TotalFriends int64 `json:"totalFriends"`
}

type CategoryView struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"categoryName"`
}

// ProfileView is the read model returned to both users and peer services.
type ProfileView struct {
	ID            string         `json:"id"`
	Username      string         `json:"username"`
	IsOpenAccount bool           `json:"isOpenAccount"`
	PrimeStatus   bool           `json:"primeStatus"`
	Profile       ProfileDetails `json:"profile"`
	Avatars       []MediaView    `json:"usersAvatars"`
	BackPad       MediaView      `json:"usersBackPad"`
	Statistics    StatisticsView `json:"accountStatistic"`
	Categories    []CategoryView `json:"categories"`
}

func NewProfileView(acc *entity.Account, now time.Time) ProfileView {
	v := ProfileView{
		ID:            acc.ID,
		Username:      acc.Username,
		IsOpenAccount: acc.IsOpenAccount,
		PrimeStatus:   acc.PrimeStatus,
		Profile: ProfileDetails{
			FirstName:   acc.Profile.FirstName,
			LastName:    acc.Profile.LastName,
			Age:         acc.Profile.Age(now),
			Gender:      string(acc.Profile.Gender),
			Description: acc.Profile.Description,
		},
		Avatars:    make([]MediaView, 0, len(acc.Avatars)),
		BackPad:    mediaView(acc.BackPad),
		Statistics: StatisticsView{TotalEvents: acc.Statistics.TotalEvents, TotalFriends: acc.Statistics.TotalFriends},
		Categories: make([]CategoryView, 0, len(acc.Categories)),
	}
	if !acc.Profile.DateOfBirth.IsZero() {
		v.Profile.DateOfBirth = acc.Profile.DateOfBirth.Format(time.DateOnly)
	}
	if c := acc.Profile.City; c != nil {
		v.Profile.City = &CityView{ID: c.ID, Name: c.Name, Region: c.Region, FederalDistrict: c.FederalDistrict}
	}
	for _, m := range acc.Avatars {
		v.Avatars = append(v.Avatars, mediaView(m))
	}
	for _, c := range acc.Categories {
		v.Categories = append(v.Categories, CategoryView{ID: c.ID, CategoryName: c.Name})
	}
	return v
}

func mediaView(m entity.Media) MediaView {
	return MediaView{ID: m.ID, MediaURL: m.MediaURL, CreatedAt: m.CreatedAt}
}

func profileDocument(acc *entity.Account) search.ProfileDocument {
	doc := search.ProfileDocument{
		ID:        acc.ID,
		Username:  acc.Username,
		FirstName: acc.Profile.FirstName,
		LastName:  acc.Profile.LastName,
	}
	if acc.Profile.City != nil {
		doc.City = acc.Profile.City.Name
	}
	if len(acc.Avatars) > 0 {
		doc.MediaURL = acc.Avatars[0].MediaURL
	}
	return doc
}
