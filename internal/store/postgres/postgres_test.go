package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func TestQueryToday(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count FROM daily_visits WHERE day = \\$1").
		WithArgs("2025-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := queryToday(context.Background(), db, "2025-06-01")
	if err != nil {
		t.Fatalf("queryToday: %v", err)
	}
	if n != 7 {
		t.Errorf("queryToday = %d, want 7", n)
	}
}

func TestQueryToday_NoRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count FROM daily_visits WHERE day = \\$1").
		WithArgs("2025-06-01").
		WillReturnError(sql.ErrNoRows)

	n, err := queryToday(context.Background(), db, "2025-06-01")
	if err != nil {
		t.Fatalf("queryToday: %v", err)
	}
	if n != 0 {
		t.Errorf("queryToday = %d, want 0", n)
	}
}

func TestQueryToday_Error(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count FROM daily_visits WHERE day = \\$1").
		WithArgs("2025-06-01").
		WillReturnError(errors.New("connection reset"))

	if _, err := queryToday(context.Background(), db, "2025-06-01"); err == nil {
		t.Fatal("queryToday returned nil error, want error")
	}
}

func TestQueryIncrement(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO daily_visits .+ ON CONFLICT \\(day\\) DO UPDATE SET count = daily_visits.count \\+ 1").
		WithArgs("2025-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	n, err := queryIncrement(context.Background(), db, "2025-06-01")
	if err != nil {
		t.Fatalf("queryIncrement: %v", err)
	}
	if n != 1 {
		t.Errorf("queryIncrement = %d, want 1", n)
	}
}

func TestQueryIncrement_Error(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO daily_visits").
		WithArgs("2025-06-01").
		WillReturnError(errors.New("deadlock detected"))

	if _, err := queryIncrement(context.Background(), db, "2025-06-01"); err == nil {
		t.Fatal("queryIncrement returned nil error, want error")
	}
}
