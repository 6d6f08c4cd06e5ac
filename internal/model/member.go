package model

import "time"

// Member 用户模型
type Member struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// AuthorInfo 公告作者摘要
type AuthorInfo struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
