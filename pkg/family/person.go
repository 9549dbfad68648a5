package family

import (
	"strings"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// Gender is the closed set of genders a person card can carry.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Person is a single family member.
//
// BirthYear is required; DeathYear is optional and zero when unknown or the
// person is alive.
type Person struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Gender     Gender `json:"gender" bson:"gender"`
	BirthYear  int    `json:"birthYear" bson:"birthYear"`
	DeathYear  int    `json:"deathYear,omitempty" bson:"deathYear,omitempty"`
	Occupation string `json:"occupation,omitempty" bson:"occupation,omitempty"`
	Birthplace string `json:"birthplace,omitempty" bson:"birthplace,omitempty"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
	ImageRef   string `json:"imageRef,omitempty" bson:"imageRef,omitempty"`
}

// Alive reports whether no death year is recorded.
func (p Person) Alive() bool { return p.DeathYear == 0 }

// Validate checks the person's fields and returns an ErrCodeValidation error
// describing the first problem found.
func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return kerrors.New(kerrors.ErrCodeValidation, "name is required").WithIDs(p.ID)
	}
	if !p.Gender.Valid() {
		return kerrors.New(kerrors.ErrCodeValidation, "invalid gender %q (must be male or female)", p.Gender).WithIDs(p.ID)
	}
	if p.BirthYear == 0 {
		return kerrors.New(kerrors.ErrCodeValidation, "birth year is required").WithIDs(p.ID)
	}
	if p.DeathYear != 0 && p.DeathYear < p.BirthYear {
		return kerrors.New(kerrors.ErrCodeValidation, "death year %d is before birth year %d", p.DeathYear, p.BirthYear).WithIDs(p.ID)
	}
	return nil
}
