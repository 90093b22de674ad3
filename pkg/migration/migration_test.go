package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID   uint
	Body string
}

type createNotes struct{}

func (createNotes) Up(db *gorm.DB) error   { return db.AutoMigrate(&note{}) }
func (createNotes) Down(db *gorm.DB) error { return db.Migrator().DropTable(&note{}) }

func TestRunRollbackStatus(t *testing.T) {
	saved := registry
	registry = nil
	defer func() { registry = saved }()

	db, err := gorm.Open(sqlite.Open("file:migrationtest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	var out bytes.Buffer
	r := New(db).WithOutput(&out)
	assert.ErrorIs(t, r.Run(), ErrNoMigrations)

	Register("2024_01_01_000001_create_notes", createNotes{})
	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&note{}))
	assert.Contains(t, out.String(), "migrating  2024_01_01_000001_create_notes")

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	out.Reset()
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Ran")

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&note{}))

	out.Reset()
	require.NoError(t, r.Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")
}
