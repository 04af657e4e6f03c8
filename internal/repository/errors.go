package repository

import (
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"taskmaster/internal/errors"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports a unique constraint violation. gorm translates it
// when TranslateError is on; the raw driver error covers connections opened
// without it.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
