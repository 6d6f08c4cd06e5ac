package repository

import (
	"strings"

	"noticeboard/internal/errs"
)

// 可用于动态排序的字段白名单，请求字段名 -> 查询列
// 不走反射，未知字段直接拒绝
var sortableColumns = map[string]string{
	"id":        "n.id",
	"title":     "n.title",
	"createdAt": "n.created_at",
	"updatedAt": "n.updated_at",
	"startAt":   "n.start_at",
	"endAt":     "n.end_at",
	"viewCount": "n.view_count",
}

// DefaultOrderClause 默认排序：最新创建的在前
const DefaultOrderClause = "n.created_at DESC"

// OrderClause 将请求的排序字段和方向转换为ORDER BY子句
func OrderClause(field, direction string) (string, error) {
	if field == "" {
		field = "createdAt"
	}
	column, ok := sortableColumns[field]
	if !ok {
		return "", errs.InvalidInputf("不支持的排序字段: %s", field)
	}

	switch strings.ToLower(direction) {
	case "", "desc":
		return column + " DESC", nil
	case "asc":
		return column + " ASC", nil
	default:
		return "", errs.InvalidInputf("不支持的排序方向: %s", direction)
	}
}
