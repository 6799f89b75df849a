package user_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typoteka/internal/domain/entity"
	"typoteka/internal/infra/adapter/persistence/memory"
	"typoteka/internal/service/auth"
	"typoteka/internal/usecase/guard"
	userUC "typoteka/internal/usecase/user"
)

var secret = []byte("0123456789abcdefghijklmnopqrstuvwxyzABCD")

func newService(t *testing.T) *userUC.Service {
	t.Helper()
	store := memory.NewStore()
	return &userUC.Service{
		Users:  store.Users(),
		Tokens: auth.NewService(store.Users(), auth.Config{Secret: secret, TTL: time.Hour}),
		Guard: &guard.Pipeline{
			Articles:   store.Articles(),
			Categories: store.Categories(),
			Comments:   store.Comments(),
			Users:      store.Users(),
			Rules:      guard.DefaultRules(),
		},
	}
}

func input(email string) entity.UserInput {
	return entity.UserInput{
		FirstName:        "Анна",
		LastName:         "Иванова",
		Email:            email,
		Password:         "s3cret-pass",
		RepeatedPassword: "s3cret-pass",
		Avatar:           "avatar.png",
	}
}

func TestService_Register_FirstUserIsAdmin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, input("anna@example.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.NotEqual(t, "s3cret-pass", first.PasswordHash)
	require.NoError(t, auth.CheckPassword(first.PasswordHash, "s3cret-pass"))

	second, err := svc.Register(ctx, input("boris@example.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleReader, second.Role)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, input("anna@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, input("ANNA@example.com"))
	var violations entity.ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.True(t, violations.Has("email"))
}

func TestService_Register_PasswordOverBcryptLimit(t *testing.T) {
	svc := newService(t)

	in := input("anna@example.com")
	in.Password = strings.Repeat("p", 80)
	in.RepeatedPassword = in.Password

	_, err := svc.Register(context.Background(), in)
	var violations entity.ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.True(t, violations.Has("password"))
	assert.Equal(t, guard.Invalid, guard.Classify(err))
}

func TestService_Register_CollectsViolations(t *testing.T) {
	svc := newService(t)

	in := input("not-an-email")
	in.FirstName = ""
	in.RepeatedPassword = "other-pass"
	_, err := svc.Register(context.Background(), in)

	var violations entity.ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.True(t, violations.Has("firstName"))
	assert.True(t, violations.Has("email"))
	assert.True(t, violations.Has("repeatedPassword"))
	assert.False(t, violations.Has("lastName"))
}

func TestService_Login(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, input("anna@example.com"))
	require.NoError(t, err)

	token, err := svc.Login(ctx, auth.Credentials{Email: "anna@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	claims, err := svc.Tokens.VerifyToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	_, err = svc.Login(ctx, auth.Credentials{Email: "anna@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}
