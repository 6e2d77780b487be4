package store

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassifySchemaError(t *testing.T) {
	undefinedTable := &pq.Error{Code: "42P01", Message: `relation "referrals" does not exist`}
	assert.ErrorIs(t, classifySchemaError(undefinedTable), ErrRelationMissing)

	// Other Postgres errors pass through untouched
	uniqueViolation := &pq.Error{Code: "23505", Message: "duplicate key value"}
	assert.NotErrorIs(t, classifySchemaError(uniqueViolation), ErrRelationMissing)

	plain := errors.New("connection refused")
	assert.Equal(t, plain, classifySchemaError(plain))

	assert.Nil(t, classifySchemaError(nil))
}

func TestNullable(t *testing.T) {
	assert.False(t, nullable("").Valid)
	assert.True(t, nullable("x").Valid)
	assert.Equal(t, "x", nullable("x").String)
}
