package repository

import (
	"context"
	"database/sql"

	"noticeboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// MemberRepository 用户存储库接口
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	// 根据ID获取用户，不存在时返回nil
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	// 根据邮箱获取用户，不存在时返回nil
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
}

// memberRepository 用户存储库实现
type memberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository 创建用户存储库实例
func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create 创建用户
func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO member (name, email, password) VALUES (?, ?, ?)`,
		member.Name, member.Email, member.Password)
	if err != nil {
		return err
	}
	member.ID, err = res.LastInsertId()
	return err
}

// GetByID 根据ID获取用户
func (r *memberRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	member := &model.Member{}
	err := r.db.GetContext(ctx, member, `SELECT * FROM member WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// GetByEmail 根据邮箱获取用户
func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	member := &model.Member{}
	err := r.db.GetContext(ctx, member, `SELECT * FROM member WHERE email = ?`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}
