package domain

import "strings"

// UnknownUserName is the placeholder identity shown for a status whose
// user_id matches no loaded user.
const UnknownUserName = "不明なユーザー"

type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Initials returns the first character of every space separated part of
// the name, upper-cased. "田中 一郎" -> "田一", "jane doe" -> "JD".
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, " ") {
		for _, r := range part {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return b.String()
}
