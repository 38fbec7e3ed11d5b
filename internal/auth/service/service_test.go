package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
	"github.com/introaqua/waterworks/internal/auth/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) authdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.Session{}))

	repo, sessionRepo := repository.New(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repo,
		SessionRepo: sessionRepo,
	})
}

func validRegisterRequest() authdomain.RegisterRequest {
	return authdomain.RegisterRequest{
		Username: "nguyenvana",
		Email:    "nguyenvana@example.com",
		Password: "water123",
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
	}
}

func TestRegister_AssignsCustomerCode(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	assert.Equal(t, authdomain.RoleCustomer, user.Role)
	assert.Regexp(t, `^CUST\d{8}$`, user.CustomerCodeValue())
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "water123", user.PasswordHash)
}

func TestStaffAccountsHaveNoCustomerCode(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.Session{}))

	repo, _ := repository.New(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	phones := map[string]string{"staffone": "0900000001", "stafftwo": "0900000002"}
	for name, phone := range phones {
		staff := &authdomain.User{
			ID:       node.Generate(),
			Username: name,
			Email:    name + "@example.com",
			FullName: "Staff Member",
			Phone:    phone,
			Role:     authdomain.RoleStaff,
			IsActive: true,
		}
		require.NoError(t, repo.Create(ctx, staff))
		assert.Equal(t, "", staff.CustomerCodeValue())
	}
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	dup := validRegisterRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, authdomain.ErrUserExists)

	dup = validRegisterRequest()
	dup.Username = "otheruser"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, authdomain.ErrUserExists)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := validRegisterRequest()
	req.Username = "a!"
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, authdomain.ErrInvalidUsername)

	req = validRegisterRequest()
	req.Password = "short"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, authdomain.ErrInvalidPassword)

	req = validRegisterRequest()
	req.Phone = "123"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, authdomain.ErrInvalidPhone)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, authdomain.LoginRequest{Username: "nguyenvana", Password: "wrong"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLogin_StampsLastLoginAndSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	result, err := svc.Login(ctx, authdomain.LoginRequest{Username: "nguyenvana", Password: "water123"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RawToken)
	require.NotNil(t, result.User.LastLogin)

	user, _, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	result, err := svc.Login(ctx, authdomain.LoginRequest{Username: "nguyenvana", Password: "water123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, _, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, authdomain.ErrSessionRevoked)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, authdomain.ChangePasswordRequest{
		UserID:          user.ID,
		CurrentPassword: "wrong",
		NewPassword:     "newpassword",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, authdomain.ChangePasswordRequest{
		UserID:          user.ID,
		CurrentPassword: "water123",
		NewPassword:     "newpassword",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, authdomain.LoginRequest{Username: "nguyenvana", Password: "newpassword"})
	require.NoError(t, err)
}

func TestCustomerLookup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	byCode, err := svc.CustomerLookup(ctx, user.CustomerCodeValue(), "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byCode.ID)

	byPhone, err := svc.CustomerLookup(ctx, "", "0901234567")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	_, err = svc.CustomerLookup(ctx, "", "")
	assert.ErrorIs(t, err, authdomain.ErrUserNotFound)
}
