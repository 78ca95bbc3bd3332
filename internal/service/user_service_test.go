package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepository(db))
}

func TestCreateUserHashesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	res, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "supersecret",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.Role)

	var stored model.User
	require.NoError(t, db.First(&stored, "email = ?", "admin@example.com").Error)
	assert.NotEqual(t, "supersecret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersecret")))
}

func TestCreateUserDefaultsToStaffRole(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	res, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name:     "Clerk",
		Email:    "clerk@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, res.Role)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name: "First", Email: "dup@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{
		Name: "Second", Email: "dup@example.com", Password: "supersecret",
	})
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestLoginIssuesToken(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name: "Admin", Email: "admin@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), LoginRequest{
		Email: "admin@example.com", Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "admin@example.com", token.User.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name: "Admin", Email: "admin@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email: "admin@example.com", Password: "wrong-password",
	})
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestGetUserByIDUnknownIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	_, err := svc.GetUserByID(context.Background(), "8f4e2a9d-0000-0000-0000-000000000000")
	var nfe *apperror.NotFoundError
	require.ErrorAs(t, err, &nfe)
}
