package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMapMongoErr(t *testing.T) {
	assert.NoError(t, mapMongoErr(nil))
	assert.ErrorIs(t, mapMongoErr(mongo.ErrNoDocuments), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mapMongoErr(dup), ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, mapMongoErr(other))
}

func TestMapPostgresErr(t *testing.T) {
	assert.NoError(t, mapPostgresErr(nil))
	assert.ErrorIs(t, mapPostgresErr(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapPostgresErr(fmt.Errorf("insert: %w", &pq.Error{Code: pgUniqueViolation})), ErrDuplicate)

	other := &pq.Error{Code: "23503"}
	assert.Equal(t, error(other), mapPostgresErr(other))
}
