package dbtest

import (
	"testing"

	"coderr/models"
	"coderr/services/access"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateUser inserts a user of the given type. The password column holds a
// placeholder; tests that log in go through the accounts service instead.
func CreateUser(t testing.TB, db *gorm.DB, username, userType string) models.User {
	t.Helper()

	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "not-a-hash",
		Type:      userType,
		FirstName: username + "-first",
		LastName:  username + "-last",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateStaff inserts a staff user
func CreateStaff(t testing.TB, db *gorm.DB, username string) models.User {
	t.Helper()

	user := CreateUser(t, db, username, models.UserTypeCustomer)
	require.NoError(t, db.Model(&user).Update("is_staff", true).Error)
	user.IsStaff = true
	return user
}

// Principal is shorthand for access.User
func Principal(u models.User) access.Principal {
	return access.User(u)
}
