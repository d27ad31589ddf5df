package utils

import (
	"regexp"
	"strings"
)

// forbidden matches statements that write to or reshape the database.
// SELECT ... INTO creates a table.
var forbidden = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|INSERT|ALTER|TRUNCATE|CREATE|GRANT|REVOKE|COPY|INTO|MERGE|CALL|VACUUM|LOCK)\b`)

// sideEffects matches function calls that act on the server even inside a
// read-only transaction.
var sideEffects = regexp.MustCompile(`(?i)\b(pg_terminate_backend|pg_cancel_backend|pg_reload_conf|pg_rotate_logfile|pg_sleep\w*|pg_advisory\w*|pg_read_file|pg_read_binary_file|pg_ls_dir|set_config|nextval|setval|lo_\w+|dblink\w*)\s*\(`)

// ValidateSQL reports whether query is a single read-only statement.
func ValidateSQL(query string) bool {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, ";")
	if q == "" || strings.Contains(q, ";") {
		return false
	}
	if !HasReadPrefix(q) {
		return false
	}
	return !forbidden.MatchString(q) && !sideEffects.MatchString(q)
}

// HasReadPrefix reports whether query starts with SELECT or WITH.
func HasReadPrefix(query string) bool {
	lower := strings.ToLower(strings.TrimSpace(query))
	for _, prefix := range []string{"select", "with"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
