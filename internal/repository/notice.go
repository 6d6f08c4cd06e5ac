package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"noticeboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// SearchCondition 公告检索条件
type SearchCondition struct {
	Keyword   string
	TitleOnly bool
	FromDate  *time.Time // 与start_at按当日00:00比较
	ToDate    *time.Time // 与end_at按当日23:59:59比较
}

// NoticeRepository 公告存储库接口
type NoticeRepository interface {
	// 创建公告，附件在同一事务内写入
	Create(ctx context.Context, notice *model.Notice) error
	// 根据ID获取公告行，不存在时返回nil
	GetByID(ctx context.Context, id int64) (*model.Notice, error)
	// 获取公告详情，包含作者和附件
	GetDetail(ctx context.Context, id int64) (*model.Notice, error)
	// 更新公告基础字段
	Update(ctx context.Context, notice *model.Notice) error
	// 删除公告，附件级联删除
	Delete(ctx context.Context, id int64) error
	// 检索条件下的公告总数
	CountBySearch(ctx context.Context, cond SearchCondition) (int64, error)
	// 单次查询的分页检索
	FindBySearch(ctx context.Context, cond SearchCondition, orderBy string, limit, offset int) ([]model.NoticeListItem, error)
	// 标题命中关键字的全部公告，按创建时间倒序
	FindTitleMatched(ctx context.Context, cond SearchCondition) ([]model.NoticeListItem, error)
	// 仅内容命中关键字（标题未命中）的全部公告，按创建时间倒序
	FindContentOnlyMatched(ctx context.Context, cond SearchCondition) ([]model.NoticeListItem, error)
	// 按增量映射批量累加浏览量，单条CASE WHEN语句执行
	BatchIncreaseViewCount(ctx context.Context, deltas map[int64]int64) error
}

// noticeRepository 公告存储库实现
type noticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository 创建公告存储库实例
func NewNoticeRepository(db *sqlx.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

// 列表查询的公共SELECT，附件存在性用EXISTS子查询一次算出，避免逐条查询
const noticeListSelect = "SELECT n.id, n.title, " +
	"EXISTS(SELECT 1 FROM attachment a WHERE a.notice_id = n.id) AS has_attachment, " +
	"n.created_at, n.start_at, n.end_at, n.view_count, " +
	"m.id AS `author.id`, m.name AS `author.name` " +
	"FROM notice n JOIN member m ON m.id = n.user_id"

// Create 创建公告
func (r *noticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO notice (user_id, title, content, start_at, end_at) VALUES (?, ?, ?, ?, ?)`,
		notice.AuthorID, notice.Title, notice.Content, notice.StartAt, notice.EndAt)
	if err != nil {
		return err
	}
	noticeID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	notice.ID = noticeID

	for i := range notice.Attachments {
		att := &notice.Attachments[i]
		att.NoticeID = noticeID
		attRes, attErr := tx.ExecContext(ctx,
			`INSERT INTO attachment (notice_id, filename, url) VALUES (?, ?, ?)`,
			att.NoticeID, att.Filename, att.URL)
		if attErr != nil {
			err = attErr
			return err
		}
		if att.ID, attErr = attRes.LastInsertId(); attErr != nil {
			err = attErr
			return err
		}
	}

	return tx.Commit()
}

// GetByID 根据ID获取公告行
func (r *noticeRepository) GetByID(ctx context.Context, id int64) (*model.Notice, error) {
	notice := &model.Notice{}
	err := r.db.GetContext(ctx, notice, `SELECT * FROM notice WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return notice, nil
}

// GetDetail 获取公告详情（作者联表，附件单独查询）
func (r *noticeRepository) GetDetail(ctx context.Context, id int64) (*model.Notice, error) {
	var row struct {
		model.Notice
		AuthorRow model.AuthorInfo `db:"author"`
	}

	query := "SELECT n.id, n.user_id, n.title, n.content, n.start_at, n.end_at, " +
		"n.view_count, n.created_at, n.updated_at, " +
		"m.id AS `author.id`, m.name AS `author.name` " +
		"FROM notice n JOIN member m ON m.id = n.user_id WHERE n.id = ?"
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	notice := row.Notice
	notice.Author = &row.AuthorRow

	attachments := []model.Attachment{}
	err = r.db.SelectContext(ctx, &attachments,
		`SELECT * FROM attachment WHERE notice_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	notice.Attachments = attachments

	return &notice, nil
}

// Update 更新公告基础字段
func (r *noticeRepository) Update(ctx context.Context, notice *model.Notice) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notice SET title = ?, content = ?, start_at = ?, end_at = ? WHERE id = ?`,
		notice.Title, notice.Content, notice.StartAt, notice.EndAt, notice.ID)
	return err
}

// Delete 删除公告
func (r *noticeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notice WHERE id = ?`, id)
	return err
}

// CountBySearch 检索条件下的公告总数
func (r *noticeRepository) CountBySearch(ctx context.Context, cond SearchCondition) (int64, error) {
	where, args := buildSearchWhere(cond)
	query := "SELECT COUNT(*) FROM notice n" + where

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySearch 单次查询的分页检索
func (r *noticeRepository) FindBySearch(ctx context.Context, cond SearchCondition, orderBy string, limit, offset int) ([]model.NoticeListItem, error) {
	where, args := buildSearchWhere(cond)
	query := noticeListSelect + where + " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	items := []model.NoticeListItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// FindTitleMatched 标题命中关键字的全部公告
// 与FindContentOnlyMatched配合使用时不分页，合并和截取在服务层内存中完成，
// 这是已知的扩展上限：数据量大时两段子查询会整表拉取
func (r *noticeRepository) FindTitleMatched(ctx context.Context, cond SearchCondition) ([]model.NoticeListItem, error) {
	conds := []string{"LOWER(n.title) LIKE ?"}
	args := []interface{}{likePattern(cond.Keyword)}
	conds, args = appendRangeConds(conds, args, cond)

	query := noticeListSelect + " WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY " + DefaultOrderClause

	items := []model.NoticeListItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// FindContentOnlyMatched 仅内容命中关键字的全部公告（排除标题已命中的）
func (r *noticeRepository) FindContentOnlyMatched(ctx context.Context, cond SearchCondition) ([]model.NoticeListItem, error) {
	pattern := likePattern(cond.Keyword)
	conds := []string{"LOWER(n.content) LIKE ?", "LOWER(n.title) NOT LIKE ?"}
	args := []interface{}{pattern, pattern}
	conds, args = appendRangeConds(conds, args, cond)

	query := noticeListSelect + " WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY " + DefaultOrderClause

	items := []model.NoticeListItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// 单条CASE WHEN语句的ID数量上限，限制单次刷库语句的规模
const viewCountBatchSize = 500

// BatchIncreaseViewCount 按增量映射批量累加浏览量
// 每批生成一条 UPDATE ... SET view_count = CASE id WHEN ... END WHERE id IN (...)
func (r *noticeRepository) BatchIncreaseViewCount(ctx context.Context, deltas map[int64]int64) error {
	if len(deltas) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}

	for start := 0; start < len(ids); start += viewCountBatchSize {
		end := min(start+viewCountBatchSize, len(ids))
		chunk := ids[start:end]

		var sb strings.Builder
		args := make([]interface{}, 0, len(chunk)*2+1)
		sb.WriteString("UPDATE notice SET view_count = CASE id ")
		for _, id := range chunk {
			sb.WriteString("WHEN ? THEN view_count + ? ")
			args = append(args, id, deltas[id])
		}
		sb.WriteString("ELSE view_count END WHERE id IN (?)")
		args = append(args, chunk)

		query, inArgs, err := sqlx.In(sb.String(), args...)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, query, inArgs...); err != nil {
			return err
		}
	}

	return nil
}

// buildSearchWhere 构建单次查询模式的WHERE子句
func buildSearchWhere(cond SearchCondition) (string, []interface{}) {
	conds := []string{}
	args := []interface{}{}

	if kw := strings.TrimSpace(cond.Keyword); kw != "" {
		pattern := likePattern(kw)
		if cond.TitleOnly {
			conds = append(conds, "LOWER(n.title) LIKE ?")
			args = append(args, pattern)
		} else {
			conds = append(conds, "(LOWER(n.title) LIKE ? OR LOWER(n.content) LIKE ?)")
			args = append(args, pattern, pattern)
		}
	}

	conds, args = appendRangeConds(conds, args, cond)

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// appendRangeConds 追加展示时间范围条件
func appendRangeConds(conds []string, args []interface{}, cond SearchCondition) ([]string, []interface{}) {
	if cond.FromDate != nil {
		conds = append(conds, "n.start_at >= ?")
		args = append(args, startOfDay(*cond.FromDate))
	}
	if cond.ToDate != nil {
		conds = append(conds, "n.end_at <= ?")
		args = append(args, endOfDay(*cond.ToDate))
	}
	return conds, args
}

// likePattern 大小写无关的包含匹配模式
func likePattern(keyword string) string {
	return "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
