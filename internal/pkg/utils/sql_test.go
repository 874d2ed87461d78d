package utils

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSQLStr(t *testing.T) {
	assert.Equal(t, sql.NullString{}, ToSQLStr(""))
	assert.Equal(t, sql.NullString{String: "Translation failed", Valid: true}, ToSQLStr("Translation failed"))
}
