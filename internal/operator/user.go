package operator

import (
	"context"
	"strings"
)

// User: данные клиента, которые видит оператор.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

const placeholderName = "Пользователь"

type userKey struct{}

// WithUser кладёт данные клиента в контекст обработки сообщения.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext достаёт клиента; если в контексте другой или никого нет,
// возвращает заглушку с переданным id.
func UserFromContext(ctx context.Context, id int64) User {
	if u, ok := ctx.Value(userKey{}).(User); ok && u.ID == id {
		return u
	}
	return User{ID: id, FirstName: placeholderName}
}

func (u User) displayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return placeholderName
	}
	return name
}

func (u User) handle() string {
	if u.Username == "" {
		return "нет"
	}
	return u.Username
}
