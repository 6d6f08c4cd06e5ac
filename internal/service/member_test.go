package service

import (
	"context"
	"testing"

	"noticeboard/internal/errs"
	"noticeboard/internal/types"
	"noticeboard/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestRegisterMember(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo, logger.NewLogger("error"))
	ctx := context.Background()

	member, err := svc.Register(ctx, types.RegisterMemberRequest{
		Name:     "홍길동",
		Email:    "hong@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, member.ID)
	assert.Equal(t, "홍길동", member.Name)

	// 密码加密存储，明文不落库
	assert.NotEqual(t, "password123", member.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(member.Password), []byte("password123")))
}

func TestRegisterMemberDuplicateEmail(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo, logger.NewLogger("error"))
	ctx := context.Background()

	_, err := svc.Register(ctx, types.RegisterMemberRequest{
		Name: "첫번째", Email: "dup@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, types.RegisterMemberRequest{
		Name: "두번째", Email: "dup@example.com", Password: "password456",
	})
	assert.ErrorIs(t, err, errs.ErrEmailExists)
}

func TestGetMemberByID(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo, logger.NewLogger("error"))
	ctx := context.Background()

	created, err := svc.Register(ctx, types.RegisterMemberRequest{
		Name: "홍길동", Email: "hong@example.com", Password: "password123",
	})
	require.NoError(t, err)

	member, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hong@example.com", member.Email)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, errs.ErrMemberNotFound)
}
