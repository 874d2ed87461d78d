package utils

import "database/sql"

// ToSQLStr creates new sql str instance, empty string is stored as NULL
func ToSQLStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
