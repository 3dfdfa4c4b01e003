package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AccountID identifier the backend sends either as a number or a string
type AccountID string

// UnmarshalJSON accepts 42 as well as "42".
func (id *AccountID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = AccountID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("account id: %w", err)
	}
	*id = AccountID(n.String())
	return nil
}

// ShopAccount logged in shop account
type ShopAccount struct {
	Avatar   string `json:"avatar"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// UserInfo current user as returned by the shop backend
type UserInfo struct {
	ID          AccountID   `json:"id"`
	ShopAccount ShopAccount `json:"shopAccount"`
}

// DisplayName prefers the nickname over the login name.
func (u *UserInfo) DisplayName() string {
	if u.ShopAccount.Nickname != "" {
		return u.ShopAccount.Nickname
	}
	return u.ShopAccount.Username
}
