package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a clinician account for the dashboard. Participants themselves
// never register; they run assessments under a session identity.
type User struct {
	ID        int
	Email     string `gorm:"uniqueIndex"`
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetPassword stores a bcrypt hash of the supplied password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
