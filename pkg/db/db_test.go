package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/LernCasino/internal/config"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	conn, err := Open(config.DB{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	defer Close(conn)

	var fk int
	require.NoError(t, conn.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpenRedis_Disabled(t *testing.T) {
	rdb, err := OpenRedis(context.Background(), config.Redis{})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}
