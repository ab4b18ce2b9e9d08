package context

import (
	"context"

	"github.com/maay-app/maay-api/internal/dal"
)

type userKey struct{}

func WithUser(ctx context.Context, user *dal.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func UserFromContext(ctx context.Context) (*dal.User, bool) {
	user, ok := ctx.Value(userKey{}).(*dal.User)
	return user, ok
}

// MustUserFromContext panics when no user is present; handlers behind the
// auth middleware may rely on it.
func MustUserFromContext(ctx context.Context) *dal.User {
	user, ok := UserFromContext(ctx)
	if !ok {
		panic("user not found in context")
	}
	return user
}
