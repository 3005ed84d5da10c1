package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender définit les genres possibles, stockés sous leur code.
type Gender string

const (
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
	GenderUnspecified Gender = "NS"
)

// Contributor indique si l'utilisateur contribue au catalogue.
type Contributor string

const (
	ContributorYes         Contributor = "Y"
	ContributorNo          Contributor = "N"
	ContributorUnspecified Contributor = "NS"
)

// User est le compte : identité, identifiants et drapeaux de permission.
// Les attributs de profil vivent dans Profile, lié par UserID.
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid"`
	Password    string     `json:"-" gorm:"size:128"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	IsSuperuser bool       `json:"is_superuser"`
	Username    string     `json:"username" gorm:"size:150" validate:"required,max=150,username"`
	FirstName   string     `json:"first_name" gorm:"size:150" validate:"max=150"`
	LastName    string     `json:"last_name" gorm:"size:150" validate:"max=150"`
	Email       string     `json:"email" gorm:"size:254" validate:"omitempty,max=254,email"`
	IsStaff     bool       `json:"is_staff"`
	IsActive    bool       `json:"is_active"`
	DateJoined  time.Time  `json:"date_joined"`

	Profile Profile `json:"profile" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// Profile porte les attributs ajoutés au compte de base.
type Profile struct {
	UserID      string      `json:"-" gorm:"primaryKey;type:uuid"`
	Gender      Gender      `json:"gender" gorm:"size:2" validate:"gender"`
	ProfilePic  string      `json:"profile_pic" gorm:"size:100" validate:"max=100"`
	DOB         *time.Time  `json:"dob,omitempty" gorm:"column:dob;type:date" validate:"omitempty,notfuture"`
	PhoneNumber string      `json:"phone_number" gorm:"size:12" validate:"omitempty,max=12,phone"`
	Contributor Contributor `json:"contributor" gorm:"size:2" validate:"contributor"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

// New prépare un compte actif avec un profil par défaut.
func New(username, email string) *User {
	id := uuid.New().String()
	return &User{
		ID:         id,
		Username:   username,
		Email:      NormalizeEmail(email),
		IsActive:   true,
		DateJoined: time.Now().UTC(),
		Profile: Profile{
			UserID:      id,
			Gender:      GenderUnspecified,
			Contributor: ContributorUnspecified,
		},
	}
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) ShortName() string {
	return u.FirstName
}

// HasProfilePic indique si une photo de profil est référencée.
func (p Profile) HasProfilePic() bool {
	return p.ProfilePic != ""
}

// NormalizeEmail met en minuscules la partie domaine de l'adresse.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// Validation des genres
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnspecified:
		return true
	default:
		return false
	}
}

func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "--"
	}
}

// Validation des statuts contributeur
func (c Contributor) IsValid() bool {
	switch c {
	case ContributorYes, ContributorNo, ContributorUnspecified:
		return true
	default:
		return false
	}
}

func (c Contributor) Label() string {
	switch c {
	case ContributorYes:
		return "Yes"
	case ContributorNo:
		return "NO"
	default:
		return "--"
	}
}
