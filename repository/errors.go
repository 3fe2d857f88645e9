package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"expensetracker/apperr"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	mysqlTooManyConnections = 1040
	mysqlDuplicateEntry     = 1062
	mysqlTooManyUserConns   = 1203
	mysqlLockWaitTimeout    = 1205
	mysqlDeadlock           = 1213
)

// classify 将驱动错误转换为业务错误
func classify(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if isTransient(err) {
		return apperr.Wrap(apperr.KindTransient, "数据库繁忙，请稍后重试", err)
	}
	return apperr.Wrap(apperr.KindInternal, message, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlTooManyConnections, mysqlTooManyUserConns, mysqlLockWaitTimeout, mysqlDeadlock:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
