package service

import (
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndLogin(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	users := NewUserService(f.users)
	auth := NewAuthService(f.users, &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}})

	u, err := users.Create(f.ctx, &UserInput{Username: "alice", Password: "s3cret", Role: model.Student, Batch: "2024"})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.Password)

	_, err = users.Create(f.ctx, &UserInput{Username: "alice", Password: "x", Role: model.Student})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
	_, err = users.Create(f.ctx, &UserInput{Username: "bob", Password: "x", Role: "janitor"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	token, logged, err := auth.Login(f.ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, model.Student, claims.Role)

	_, _, err = auth.Login(f.ctx, "alice", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = auth.Login(f.ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	// an update without password keeps the old one
	_, err = users.Update(f.ctx, u.ID, &UserInput{Username: "alice", Role: model.Student, Name: "Alice"})
	require.NoError(t, err)
	_, _, err = auth.Login(f.ctx, "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, users.Delete(f.ctx, u.ID))
	assert.ErrorIs(t, users.Delete(f.ctx, u.ID), util.ErrUserNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	f := newFixture(t, config.ResubmissionReplace)
	users := NewUserService(f.users)

	require.NoError(t, users.EnsureAdmin(f.ctx, "root", "toor"))
	require.NoError(t, users.EnsureAdmin(f.ctx, "root2", "toor"))

	admins, total, err := users.List(f.ctx, model.Admin, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "root", admins[0].Username)
}
