package repository

import (
	"testing"

	"dentalclinic/internal/database"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Page
	}{
		{"defaults", 0, 0, Page{Page: 1, Limit: 20}},
		{"negative page", -3, 10, Page{Page: 1, Limit: 10}},
		{"clamped limit", 2, 500, Page{Page: 2, Limit: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NewPage(tt.page, tt.limit))
		})
	}

	p := NewPage(3, 20)
	require.Equal(t, 40, p.Offset())
	require.Equal(t, 3, p.TotalPages(41))
	require.Equal(t, 0, p.TotalPages(0))
}
