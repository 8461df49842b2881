package models

import "time"

type User struct {
	Id              int64
	FirstName       string
	LastName        string
	Username        string
	ChatId          int64
	LastInteraction int64
	Active          bool
}

func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

func (u *User) Touch() {
	u.LastInteraction = time.Now().Unix()
}
