package sqldb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// pgUniqueViolation код ошибки PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// dialect описывает различия между поддерживаемыми СУБД
type dialect struct {
	driver     string // имя драйвера database/sql
	goose      string // диалект goose
	migrations string // каталог миграций в embedded FS
	sqlite     bool
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return dialect{driver: "sqlite", goose: "sqlite3", migrations: "migrations/sqlite", sqlite: true}, nil
	case "pgx", "postgres":
		return dialect{driver: "pgx", goose: "postgres", migrations: "migrations/postgres"}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// rebind переводит плейсхолдеры ? в $N для PostgreSQL.
// Запросы пакета не содержат ? внутри строковых литералов.
func (d dialect) rebind(query string) string {
	if d.sqlite {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}

	return b.String()
}

// isUniqueViolation распознает нарушение UNIQUE для обоих драйверов
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return false
}
