package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestWithPragmas(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "plain path", dsn: "data/app.db", want: "data/app.db?_foreign_keys=1&_busy_timeout=5000"},
		{name: "existing params", dsn: "file:app.db?cache=shared", want: "file:app.db?cache=shared&_foreign_keys=1&_busy_timeout=5000"},
		{name: "keeps explicit values", dsn: "app.db?_busy_timeout=100", want: "app.db?_busy_timeout=100&_foreign_keys=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withPragmas(tt.dsn))
		})
	}
}

func TestEnsureDBDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, ensureDBDir("file:"+filepath.Join(root, "nested", "app.db")+"?cache=shared"))
	info, err := os.Stat(filepath.Join(root, "nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, ensureDBDir("file::memory:?cache=shared"))
}

func TestNewDBCreatesSchema(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "db", "app.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, table := range []string{"tasks", "categories", "subtasks"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("tasks", "idx_tasks_done_priority_due"))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

// newMockDB returns a gorm handle backed by sqlmock. Expectations are
// unordered so the dialect's startup queries need not be listed first.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`select sqlite_version\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("3.45.1"))

	db, err := gorm.Open(&sqlite.Dialector{Conn: conn}, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestTaskRepositoryWrapsErrors(t *testing.T) {
	errDisk := errors.New("disk I/O error")
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM `tasks`").WillReturnError(errDisk)
	mock.ExpectQuery("SELECT \\* FROM `tasks`").WillReturnError(errDisk)

	repo := NewTaskRepository(db)

	err := repo.DeleteByID(context.Background(), "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, errDisk)
	assert.Contains(t, err.Error(), "delete task")

	task, err := repo.FindByID(context.Background(), "a")
	require.Error(t, err)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, errDisk)
	assert.Contains(t, err.Error(), "find task")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: categories.name")))
	assert.False(t, isUniqueViolation(errors.New("FOREIGN KEY constraint failed")))
}
