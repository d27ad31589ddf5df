package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateSQL(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT metric, x, y FROM sales", true},
		{"  with t as (select 1) select * from t;", true},
		{"select updated_at, deleted from audit", true},
		{"", false},
		{"DROP TABLE sales", false},
		{"select 1; drop table sales", false},
		{"select * from sales where id in (delete from x returning id)", false},
		{"update sales set amount = 0", false},
		{"explain select 1", false},
		{"SELECT * INTO evil FROM sales", false},
		{"select x into temp t from sales", false},
		{"SELECT pg_terminate_backend(pid) FROM pg_stat_activity", false},
		{"select pg_sleep(10)", false},
		{"select set_config('role', 'admin', false)", false},
		{"select nextval('ids')", false},
		{"select lo_import('/etc/passwd')", false},
		{"select pid, state from pg_stat_activity", true},
		{"select locked_at, merged from sales", true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ValidateSQL(tt.query), tt.query)
	}
}
