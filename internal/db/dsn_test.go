package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  postgres://u:p@localhost/app  ", "postgres://u:p@localhost/app"},
		{`"postgresql://u:p@localhost/app"`, "postgresql://u:p@localhost/app"},
		{"host=localhost  user=app   dbname=app", "host=localhost user=app dbname=app sslmode=disable"},
		{"host=localhost user=app sslmode=require", "host=localhost user=app sslmode=require"},
		{"file:test?mode=memory&cache=shared", "file:test?mode=memory&cache=shared"},
		{"billing.db", "billing.db"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDSN(tc.in); got != tc.want {
			t.Fatalf("NormalizeDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsSQLite(t *testing.T) {
	sqlite := []string{"file:test?mode=memory&cache=shared", ":memory:", "billing.db", "data.sqlite", "data.sqlite3", "FILE:APP.DB"}
	for _, dsn := range sqlite {
		if !IsSQLite(dsn) {
			t.Fatalf("IsSQLite(%q) = false", dsn)
		}
	}
	notSQLite := []string{"postgres://u:p@localhost/app", "postgresql://u:p@localhost/app", "host=localhost dbname=app", "mysterious"}
	for _, dsn := range notSQLite {
		if IsSQLite(dsn) {
			t.Fatalf("IsSQLite(%q) = true", dsn)
		}
	}
}
