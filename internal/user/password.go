package user

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const unusablePasswordPrefix = "!"

// SetPassword stocke le hash bcrypt du mot de passe.
func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compare le mot de passe au hash stocké.
func (u *User) CheckPassword(raw string) bool {
	if !u.HasUsablePassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

// SetUnusablePassword marque le compte comme sans mot de passe utilisable.
func (u *User) SetUnusablePassword() {
	b := make([]byte, 20)
	_, _ = rand.Read(b)
	u.Password = unusablePasswordPrefix + hex.EncodeToString(b)
}

func (u *User) HasUsablePassword() bool {
	return u.Password != "" && !strings.HasPrefix(u.Password, unusablePasswordPrefix)
}
