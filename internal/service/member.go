package service

import (
	"context"
	"fmt"

	"noticeboard/internal/errs"
	"noticeboard/internal/model"
	"noticeboard/internal/repository"
	"noticeboard/internal/types"
	"noticeboard/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// MemberService 用户服务接口
type MemberService interface {
	Register(ctx context.Context, req types.RegisterMemberRequest) (*model.Member, error)
	GetByID(ctx context.Context, id int64) (*model.Member, error)
}

// memberService 用户服务实现
type memberService struct {
	memberRepo repository.MemberRepository
	logger     *logger.Logger
}

// NewMemberService 创建用户服务实例
func NewMemberService(memberRepo repository.MemberRepository, logger *logger.Logger) MemberService {
	return &memberService{memberRepo: memberRepo, logger: logger}
}

// Register 注册用户，密码bcrypt加密存储
func (s *memberService) Register(ctx context.Context, req types.RegisterMemberRequest) (*model.Member, error) {
	existing, err := s.memberRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if existing != nil {
		return nil, errs.ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	member := &model.Member{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	return member, nil
}

// GetByID 根据ID获取用户
func (s *memberService) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if member == nil {
		return nil, errs.ErrMemberNotFound
	}
	return member, nil
}
