package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsRecordNotFoundErr(t *testing.T) {
	assert.True(t, IsRecordNotFoundErr(gorm.ErrRecordNotFound))
	assert.True(t, IsRecordNotFoundErr(ErrNotFound))
	assert.True(t, IsRecordNotFoundErr(fmt.Errorf("fetch: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsRecordNotFoundErr(nil))
	assert.False(t, IsRecordNotFoundErr(errors.New("connection reset")))
}

func TestIsKeyConflictErr(t *testing.T) {
	assert.True(t, IsKeyConflictErr(ErrKeyConflict))
	assert.True(t, IsKeyConflictErr(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsKeyConflictErr(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsKeyConflictErr(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsKeyConflictErr(errors.New("connection reset")))
}
