// Package view holds the JSON shapes shared by the HTTP handlers.
package view

import (
	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/repository"
)

// Profile is the public part of a user shown in lists.
type Profile struct {
	ID           uint64   `json:"id"`
	Username     string   `json:"username"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Age          int      `json:"age"`
	Bio          string   `json:"bio"`
	Country      string   `json:"country"`
	State        string   `json:"state"`
	City         string   `json:"city"`
	ProfileImage string   `json:"profile_image"`
	Photos       []string `json:"photos"`
}

// MatchedUser is the short summary returned by a like that matched.
type MatchedUser struct {
	ID           uint64 `json:"id"`
	FirstName    string `json:"first_name"`
	ProfileImage string `json:"profile_image"`
}

func FromRow(r repository.ProfileRow) Profile {
	return Profile{
		ID:           r.ID,
		Username:     r.Username,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Age:          r.Age,
		Bio:          r.Bio,
		Country:      r.Country,
		State:        r.State,
		City:         r.City,
		ProfileImage: r.ProfileImage,
		Photos:       Strings(r.Photos),
	}
}

func FromUser(u *db.User) Profile {
	return Profile{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Age:          u.Age,
		Bio:          u.Bio,
		Country:      u.Country,
		State:        u.State,
		City:         u.City,
		ProfileImage: u.ProfileImage,
		Photos:       Strings(u.Photos),
	}
}

// Strings never returns nil so lists render as [] instead of null.
func Strings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
