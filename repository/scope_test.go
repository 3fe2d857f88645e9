package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"expensetracker/apperr"
	"expensetracker/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockScope(t *testing.T, userID uint) (*Scope, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return For(context.Background(), gormDB, userID), mock
}

var categoryColumns = []string{"id", "name", "user_id", "created_at"}

var expenseColumns = []string{"id", "description", "amount", "category_id", "user_id", "date", "created_at"}

func TestScope_UserID(t *testing.T) {
	s, _ := newMockScope(t, 42)
	assert.Equal(t, uint(42), s.UserID())
}

func TestListCategories_ScopedToUser(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `categories` WHERE user_id = ? ORDER BY id ASC")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(1, "Food", 1, time.Now()).
			AddRow(2, "Travel", 1, time.Now()))

	list, err := s.ListCategories()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Food", list[0].Name)
	assert.Equal(t, "Travel", list[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategories_Empty(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(categoryColumns))

	list, err := s.ListCategories()
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCategoryNameTaken_ExcludesSelf(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `categories` WHERE user_id = ? AND name = ? AND id <> ?")).
		WithArgs(1, "Food", 5).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	taken, err := s.CategoryNameTaken("Food", 5)
	require.NoError(t, err)
	assert.False(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryExists(t *testing.T) {
	s, mock := newMockScope(t, 2)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `categories` WHERE user_id = ? AND id = ?")).
		WithArgs(2, 10).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	ok, err := s.CategoryExists(10)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory(t *testing.T) {
	s, mock := newMockScope(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WithArgs("Food", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	cat, err := s.CreateCategory("Food")
	require.NoError(t, err)
	assert.Equal(t, uint(11), cat.ID)
	assert.Equal(t, uint(3), cat.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory_UniqueViolation(t *testing.T) {
	s, mock := newMockScope(t, 3)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Food-3'"})
	mock.ExpectRollback()

	_, err := s.CreateCategory("Food")
	assert.True(t, apperr.Is(err, apperr.KindDuplicateName))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRenameCategory_NotOwned(t *testing.T) {
	s, mock := newMockScope(t, 2)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `categories` SET `name`=? WHERE user_id = ? AND id = ?")).
		WithArgs("Travel", 2, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.RenameCategory(9, "Travel")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategory(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `categories` WHERE user_id = ? AND id = ?")).
		WithArgs(1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteCategory(3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategory_NotFound(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `categories`").
		WithArgs(1, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteCategory(99)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestClassify_Transient(t *testing.T) {
	cases := []error{
		context.DeadlineExceeded,
		&mysql.MySQLError{Number: 1040, Message: "Too many connections"},
		mysql.ErrInvalidConn,
	}
	for _, cause := range cases {
		s, mock := newMockScope(t, 1)
		mock.ExpectQuery("SELECT .* FROM `categories`").WillReturnError(cause)

		_, err := s.ListCategories()
		assert.True(t, apperr.Is(err, apperr.KindTransient), cause.Error())
		assert.ErrorIs(t, err, cause)
	}
}

func TestClassify_Internal(t *testing.T) {
	s, mock := newMockScope(t, 1)
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"})

	_, err := s.ListCategories()
	assert.True(t, apperr.Is(err, apperr.KindInternal))

	// 已分类的错误原样返回
	notFound := apperr.NotFound("记录不存在")
	assert.Same(t, notFound, classify(notFound, "ignored"))
	assert.Nil(t, classify(nil, "ignored"))
	assert.False(t, isTransient(errors.New("syntax error")))
}

func TestCreateExpense_AssignsOwner(t *testing.T) {
	s, mock := newMockScope(t, 5)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	e := &models.Expense{
		UserID:      99, // 被作用域覆盖
		Description: "Lunch",
		Amount:      models.MustAmount("12.50"),
		Date:        models.NewDate(2024, time.March, 15),
	}
	require.NoError(t, s.CreateExpense(e))
	assert.Equal(t, uint(7), e.ID)
	assert.Equal(t, uint(5), e.UserID)
	assert.False(t, e.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpenses_MonthAndCategory(t *testing.T) {
	s, mock := newMockScope(t, 1)
	month := models.Month{Year: 2024, Month: time.January}
	categoryID := uint(4)

	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE user_id = \\? AND \\(?date >= \\? AND date < \\?\\)? AND category_id = \\? ORDER BY date DESC, created_at DESC, id DESC").
		WithArgs(1, "2024-01-01", "2024-02-01", 4).
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(2, "Dinner", "50.00", 4, 1, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), time.Now()).
			AddRow(1, "Lunch", "100.00", 4, 1, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), time.Now().Add(-time.Minute)))

	list, err := s.ListExpenses(ExpenseFilter{Month: &month, CategoryID: &categoryID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "50.00", list[0].Amount.String())
	assert.Equal(t, "2024-01-05", list[0].Date.String())
	require.NotNil(t, list[0].CategoryID)
	assert.Equal(t, uint(4), *list[0].CategoryID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpenses_ByDate(t *testing.T) {
	s, mock := newMockScope(t, 1)
	day := models.NewDate(2024, time.March, 15)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `expenses` WHERE user_id = ? AND date = ? ORDER BY date DESC, created_at DESC, id DESC")).
		WithArgs(1, "2024-03-15").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(3, "Coffee", "4.00", nil, 1, day.Time, time.Now()))

	list, err := s.ListExpenses(ExpenseFilter{Date: &day})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].CategoryID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateExpense_NotOwned(t *testing.T) {
	s, mock := newMockScope(t, 2)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses` SET .* WHERE user_id = \\? AND id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.UpdateExpense(1, models.Expense{Amount: models.MustAmount("20"), Date: models.NewDate(2024, 3, 15)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateExpense_ClearsCategory(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses` SET `amount`=\\?,`category_id`=\\?,`date`=\\?,`description`=\\? WHERE user_id = \\? AND id = \\?").
		WithArgs("20.00", nil, "2024-03-15", "Lunch", 1, 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.UpdateExpense(8, models.Expense{
		Description: "Lunch",
		Amount:      models.MustAmount("20.00"),
		Date:        models.NewDate(2024, time.March, 15),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExpense_NotFound(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE user_id = \\? AND id = \\?").
		WillReturnRows(sqlmock.NewRows(expenseColumns))

	_, err := s.GetExpense(12)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteExpense(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `expenses` WHERE user_id = ? AND id = ?")).
		WithArgs(1, 6).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteExpense(6))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseMonths(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT DATE_FORMAT(date, '%Y-%m') AS month FROM `expenses` WHERE user_id = ? ORDER BY month DESC")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"month"}).AddRow("2024-02").AddRow("2024-01"))

	months, err := s.ExpenseMonths()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02", "2024-01"}, months)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseDays(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectQuery("SELECT DISTINCT DATE_FORMAT\\(date, '%Y-%m-%d'\\) AS day FROM `expenses` WHERE user_id = \\? AND .*date >= \\? AND date < \\?.* ORDER BY day DESC").
		WithArgs(1, "2024-01-01", "2024-02-01").
		WillReturnRows(sqlmock.NewRows([]string{"day"}).AddRow("2024-01-20").AddRow("2024-01-05"))

	days, err := s.ExpenseDays(models.Month{Year: 2024, Month: time.January})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-20", "2024-01-05"}, days)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSumExpenses(t *testing.T) {
	s, mock := newMockScope(t, 1)
	day := models.NewDate(2024, time.March, 15)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) AS total FROM `expenses` WHERE user_id = ? AND date = ?")).
		WithArgs(1, "2024-03-15").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("32.50"))

	total, err := s.SumExpenses(ExpenseFilter{Date: &day})
	require.NoError(t, err)
	assert.Equal(t, "32.50", total.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryTotals(t *testing.T) {
	s, mock := newMockScope(t, 1)

	mock.ExpectQuery("SELECT c.id AS id, c.name AS name, SUM\\(e.amount\\) AS total FROM .*expenses.* JOIN categories AS c ON c.id = e.category_id WHERE e.user_id = \\? AND c.user_id = \\? GROUP BY c.id, c.name ORDER BY c.id ASC").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total"}).
			AddRow(1, "Food", "130.00").
			AddRow(2, "Travel", "50.00"))

	totals, err := s.CategoryTotals()
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, models.CategoryTotal{ID: 1, Name: "Food", Total: models.MustAmount("130.00")}.Name, totals[0].Name)
	assert.Equal(t, "130.00", totals[0].Total.String())
	assert.Equal(t, "50.00", totals[1].Total.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Duplicate(t *testing.T) {
	s, mock := newMockScope(t, 0)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})
	mock.ExpectRollback()

	err := CreateUser(context.Background(), s.db, &models.User{Username: "alice", Password: "hash"})
	assert.True(t, apperr.Is(err, apperr.KindDuplicateName))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByUsername(t *testing.T) {
	s, mock := newMockScope(t, 0)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE username = \\?").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "created_at"}).
			AddRow(3, "alice", "hash", nil, time.Now()))

	u, err := FindUserByUsername(context.Background(), s.db, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(3), u.ID)
	assert.False(t, u.HasEmail())
}

func TestGetUser_NotFound(t *testing.T) {
	s, mock := newMockScope(t, 0)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	_, err := GetUser(context.Background(), s.db, 9)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
