package fixture

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"code.cloudfoundry.org/lager/v3/lagertest"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechXTT/sqlcrud/internal/core"
	"github.com/TechXTT/sqlcrud/pkg/runtime"
)

func newSession(t *testing.T) (*runtime.Session, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s, err := runtime.NewSession(context.Background(), db, core.MySQL{}, nil, lagertest.NewTestLogger("fixture"))
	require.NoError(t, err)
	return s, mock
}

func expectExec(mock sqlmock.Sqlmock, query string, args ...driver.Value) *sqlmock.ExpectedExec {
	e := mock.ExpectExec(regexp.QuoteMeta(query))
	if len(args) > 0 {
		e = e.WithArgs(args...)
	}
	return e
}

func TestRun_AllSteps(t *testing.T) {
	s, mock := newSession(t)
	ok := sqlmock.NewResult(0, 1)
	insert := "INSERT INTO `students` (`StudentID`, `FirstName`, `LastName`, `Age`) VALUES (?, ?, ?, ?)"

	expectExec(mock, "USE `school`").WillReturnResult(ok)
	expectExec(mock, "DROP TABLE IF EXISTS `students`").WillReturnResult(ok)
	expectExec(mock, "USE `school`").WillReturnResult(ok)
	expectExec(mock, "CREATE TABLE `students` (`StudentID` INT PRIMARY KEY, `FirstName` VARCHAR(50), `LastName` VARCHAR(50), `Age` INT)").WillReturnResult(ok)
	expectExec(mock, insert, int64(1), "Shiv", "Yelave", int64(22)).WillReturnResult(ok)
	expectExec(mock, insert, int64(2), "Dev", "Patil", int64(23)).WillReturnResult(ok)
	expectExec(mock, insert, int64(3), "Asha", "Rao", int64(21)).WillReturnResult(ok)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `students`")).
		WillReturnRows(sqlmock.NewRows([]string{"StudentID", "FirstName", "LastName", "Age"}).
			AddRow(1, "Shiv", "Yelave", 22).
			AddRow(2, "Dev", "Patil", 23).
			AddRow(3, "Asha", "Rao", 21))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `FirstName`, `Age` FROM `students`")).
		WillReturnRows(sqlmock.NewRows([]string{"FirstName", "Age"}).AddRow("Shiv", 22))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `students` WHERE `Age` > ?")).
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"StudentID", "FirstName", "LastName", "Age"}).AddRow(2, "Dev", "Patil", 23))
	expectExec(mock, "UPDATE `students` SET `Age` = ? WHERE `StudentID` = ?", int64(24), int64(1)).WillReturnResult(ok)
	expectExec(mock, "UPDATE `students` SET `LastName` = ? WHERE `FirstName` = ?", "Sharma", "Dev").WillReturnResult(ok)
	expectExec(mock, "DELETE FROM `students` WHERE `StudentID` = ?", int64(3)).WillReturnResult(ok)

	var out bytes.Buffer
	failed := Run(context.Background(), s, DefaultDatabase, &out)

	assert.Equal(t, 0, failed)
	assert.Contains(t, out.String(), "Using database 'school'.")
	assert.Contains(t, out.String(), "Students older than 21:")
	assert.Contains(t, out.String(), "Deleted 1 row(s).")
	require.NoError(t, mock.ExpectationsWereMet())
}

// fixed steps always run, so one failure does not stop the rest
func TestRun_ContinuesAfterFailure(t *testing.T) {
	s, mock := newSession(t)
	mock.MatchExpectationsInOrder(false)
	ok := sqlmock.NewResult(0, 1)

	expectExec(mock, "USE `school`").WillReturnResult(ok)
	expectExec(mock, "DROP TABLE IF EXISTS `students`").WillReturnError(errors.New("permission denied"))
	expectExec(mock, "USE `school`").WillReturnResult(ok)
	expectExec(mock, "CREATE TABLE `students`").WillReturnError(errors.New("permission denied"))
	for i := 0; i < 3; i++ {
		expectExec(mock, "INSERT INTO `students`").WillReturnError(errors.New("no table"))
	}
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("FROM `students`")).WillReturnError(errors.New("no table"))
	}
	for i := 0; i < 2; i++ {
		expectExec(mock, "UPDATE `students`").WillReturnError(errors.New("no table"))
	}
	expectExec(mock, "DELETE FROM `students`").WillReturnError(errors.New("no table"))

	var out bytes.Buffer
	failed := Run(context.Background(), s, DefaultDatabase, &out)

	assert.Equal(t, 11, failed)
	assert.Contains(t, out.String(), "drop table failed: error dropping table: permission denied")
	assert.Contains(t, out.String(), "delete failed: error deleting entry: no table")
	require.NoError(t, mock.ExpectationsWereMet())
}
