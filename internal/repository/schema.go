package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema 确保业务表存在
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS member (
			id BIGINT(20) UNSIGNED NOT NULL AUTO_INCREMENT,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password VARCHAR(60) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY (email)
		)`,
		`CREATE TABLE IF NOT EXISTS notice (
			id BIGINT(20) UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id BIGINT(20) UNSIGNED NOT NULL,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			start_at DATETIME NOT NULL,
			end_at DATETIME NOT NULL,
			view_count BIGINT(20) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_notice_created_at (created_at),
			CONSTRAINT fk_notice_member FOREIGN KEY (user_id) REFERENCES member (id)
		)`,
		`CREATE TABLE IF NOT EXISTS attachment (
			id BIGINT(20) UNSIGNED NOT NULL AUTO_INCREMENT,
			notice_id BIGINT(20) UNSIGNED NOT NULL,
			filename VARCHAR(255) NOT NULL,
			url VARCHAR(512) NOT NULL,
			uploaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			KEY idx_attachment_notice_id (notice_id),
			CONSTRAINT fk_attachment_notice FOREIGN KEY (notice_id) REFERENCES notice (id) ON DELETE CASCADE
		)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
