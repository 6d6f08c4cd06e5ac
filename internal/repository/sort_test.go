package repository

import (
	"testing"

	"noticeboard/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		direction string
		want      string
	}{
		{"默认字段默认方向", "", "", "n.created_at DESC"},
		{"默认字段升序", "", "asc", "n.created_at ASC"},
		{"浏览量降序", "viewCount", "desc", "n.view_count DESC"},
		{"方向大小写无关", "title", "ASC", "n.title ASC"},
		{"展示开始时间", "startAt", "", "n.start_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrderClause(tt.field, tt.direction)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderClauseRejectsUnknownField(t *testing.T) {
	// 白名单外的字段直接拒绝，错误信息指明字段名
	_, err := OrderClause("password", "desc")
	bizErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, "C0001", bizErr.Code)
	assert.Contains(t, bizErr.Message, "password")

	_, err = OrderClause("createdAt; DROP TABLE notice", "desc")
	_, ok = errs.As(err)
	assert.True(t, ok)
}

func TestOrderClauseRejectsUnknownDirection(t *testing.T) {
	_, err := OrderClause("createdAt", "sideways")
	bizErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, "C0001", bizErr.Code)
	assert.Contains(t, bizErr.Message, "sideways")
}
