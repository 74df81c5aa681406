package models

import "github.com/google/uuid"

type User struct {
	ID         uuid.UUID
	City       string
	Name       string
	Address    string
	CreditCard string
}

// UserRef is the minimal projection the simulator keeps in memory to pick
// random existing users without re-querying storage.
type UserRef struct {
	ID uuid.UUID
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID}
}
