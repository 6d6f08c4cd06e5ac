package repository

import (
	"context"

	"noticeboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// AttachmentRepository 附件存储库接口
type AttachmentRepository interface {
	ListByNoticeID(ctx context.Context, noticeID int64) ([]model.Attachment, error)
	Insert(ctx context.Context, attachment *model.Attachment) error
	DeleteByIDs(ctx context.Context, ids []int64) error
}

// attachmentRepository 附件存储库实现
type attachmentRepository struct {
	db *sqlx.DB
}

// NewAttachmentRepository 创建附件存储库实例
func NewAttachmentRepository(db *sqlx.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// ListByNoticeID 获取公告的全部附件
func (r *attachmentRepository) ListByNoticeID(ctx context.Context, noticeID int64) ([]model.Attachment, error) {
	attachments := []model.Attachment{}
	err := r.db.SelectContext(ctx, &attachments,
		`SELECT * FROM attachment WHERE notice_id = ? ORDER BY id`, noticeID)
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// Insert 新增附件
func (r *attachmentRepository) Insert(ctx context.Context, attachment *model.Attachment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attachment (notice_id, filename, url) VALUES (?, ?, ?)`,
		attachment.NoticeID, attachment.Filename, attachment.URL)
	if err != nil {
		return err
	}
	attachment.ID, err = res.LastInsertId()
	return err
}

// DeleteByIDs 按ID批量删除附件
func (r *attachmentRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM attachment WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
