package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   uint
	Name string
}

func TestOpenSQLiteAndQuery(t *testing.T) {
	db, err := Open("sqlite", "file:dbtest?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	require.NoError(t, db.Create(&widget{Name: "basket"}).Error)
	var got widget
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "basket", got.Name)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestPingWithoutConnection(t *testing.T) {
	prev := DB
	DB = nil
	defer func() { DB = prev }()

	assert.Error(t, Ping(context.Background()))
	assert.NoError(t, Close())
}
