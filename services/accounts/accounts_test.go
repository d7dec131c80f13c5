package accounts

import (
	"context"
	"testing"

	"coderr/database/dbtest"
	"coderr/models"
	"coderr/services/access"
	"coderr/services/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(dbtest.Open(t)).WithCost(bcrypt.MinCost)
}

func register(t *testing.T, s *Service, username, userType string) *models.User {
	t.Helper()
	user, err := s.Register(context.Background(), RegisterInput{
		Username:         username,
		Email:            username + "@mail.de",
		Password:         "secret123",
		RepeatedPassword: "secret123",
		Type:             userType,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user := register(t, s, "anna", models.UserTypeBusiness)
	assert.NotEqual(t, "secret123", user.Password)
	assert.Equal(t, models.UserTypeBusiness, user.Type)

	byName, err := s.Login(ctx, "anna", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := s.Login(ctx, "ANNA@mail.de", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = s.Login(ctx, "anna", "wrong")
	assert.True(t, errs.Is(err, errs.KindUnauthorized))

	_, err = s.Login(ctx, "nobody", "secret123")
	assert.True(t, errs.Is(err, errs.KindUnauthorized))
}

func TestRegisterRules(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	register(t, s, "anna", models.UserTypeCustomer)

	_, err := s.Register(ctx, RegisterInput{Username: "bob", Email: "bob@mail.de", Password: "secret123", RepeatedPassword: "other", Type: "customer"})
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Passwords must match.", e.Fields["password"])

	_, err = s.Register(ctx, RegisterInput{Username: "bob", Email: "not-an-email", Password: "secret123", RepeatedPassword: "secret123", Type: "admin"})
	require.ErrorAs(t, err, &e)
	assert.Contains(t, e.Fields, "email")
	assert.Contains(t, e.Fields, "type")

	_, err = s.Register(ctx, RegisterInput{Username: "anna", Email: "new@mail.de", Password: "secret123", RepeatedPassword: "secret123", Type: "customer"})
	assert.True(t, errs.Is(err, errs.KindConflict))

	_, err = s.Register(ctx, RegisterInput{Username: "new", Email: "anna@mail.de", Password: "secret123", RepeatedPassword: "secret123", Type: "customer"})
	assert.True(t, errs.Is(err, errs.KindConflict))
}

func TestProfiles(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	anna := register(t, s, "anna", models.UserTypeBusiness)
	ben := register(t, s, "ben", models.UserTypeCustomer)
	register(t, s, "carl", models.UserTypeBusiness)

	_, err := s.GetProfile(ctx, access.Anonymous(), anna.ID)
	assert.True(t, errs.Is(err, errs.KindUnauthorized))

	profile, err := s.GetProfile(ctx, access.User(*ben), anna.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", profile.Username)
	assert.Equal(t, "", profile.Location)

	_, err = s.GetProfile(ctx, access.User(*ben), 9999)
	assert.True(t, errs.Is(err, errs.KindNotFound))

	_, err = s.UpdateProfile(ctx, access.User(*ben), anna.ID, ProfilePatch{Location: ptr("Berlin")})
	assert.True(t, errs.Is(err, errs.KindForbidden))

	updated, err := s.UpdateProfile(ctx, access.User(*anna), anna.ID, ProfilePatch{Location: ptr("Berlin"), Tel: ptr("0123")})
	require.NoError(t, err)
	assert.Equal(t, "Berlin", updated.Location)
	assert.Equal(t, "0123", updated.Tel)
	assert.Equal(t, "", updated.FirstName)

	withFile, err := s.SetProfileFile(ctx, access.User(*anna), anna.ID, "profiles/a.png")
	require.NoError(t, err)
	assert.Equal(t, "profiles/a.png", withFile.File)
	assert.Equal(t, "Berlin", withFile.Location)

	_, err = s.UpdateProfile(ctx, access.User(*anna), anna.ID, ProfilePatch{Email: ptr("ben@mail.de")})
	assert.True(t, errs.Is(err, errs.KindConflict))

	business, err := s.ListProfiles(ctx, access.User(*ben), models.UserTypeBusiness)
	require.NoError(t, err)
	assert.Len(t, business, 2)

	customers, err := s.ListProfiles(ctx, access.User(*ben), models.UserTypeCustomer)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, ben.ID, customers[0].User)

	_, err = s.ListProfiles(ctx, access.User(*ben), "staff")
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func ptr[T any](v T) *T {
	return &v
}

func TestAuthorizeProfileEdit(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	anna := register(t, s, "anna", models.UserTypeCustomer)
	ben := register(t, s, "ben", models.UserTypeBusiness)

	assert.NoError(t, s.AuthorizeProfileEdit(ctx, access.User(*anna), anna.ID))
	assert.True(t, errs.Is(s.AuthorizeProfileEdit(ctx, access.Anonymous(), anna.ID), errs.KindUnauthorized))
	assert.True(t, errs.Is(s.AuthorizeProfileEdit(ctx, access.User(*ben), anna.ID), errs.KindForbidden))
	assert.True(t, errs.Is(s.AuthorizeProfileEdit(ctx, access.User(*ben), ben.ID+100), errs.KindNotFound))
}
