package account

import "github.com/fundwit/go-commons/types"

type User struct {
	ID     types.ID `json:"id"`
	Name   string   `json:"name" gorm:"unique_index:uni_user_name"`
	Secret string   `json:"secret"`

	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Nickname string `json:"nickname"`
}

type UserInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Nickname string   `json:"nickname"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6,lte=32"`
}

type UserCreation struct {
	Name   string `json:"name" binding:"required,gte=3,lte=32"`
	Secret string `json:"secret" binding:"required,gte=6,lte=32"`

	Email    string `json:"email" binding:"required,email,lte=256"`
	Phone    string `json:"phone" binding:"omitempty,e164"`
	Nickname string `json:"nickname" binding:"omitempty,gte=1,lte=32"`
}

type UserUpdation struct {
	Nickname string `json:"nickname" binding:"required,lte=32"`
	Email    string `json:"email" binding:"omitempty,email,lte=256"`
	Phone    string `json:"phone" binding:"omitempty,e164"`
}

func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

func (u UserInfo) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}
