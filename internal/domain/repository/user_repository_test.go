package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"minimarket/internal/common"
	"minimarket/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestUserCreate_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	repo := NewPgUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "alice", "a@x.com", "hashed").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	user := &model.User{ID: "u1", Username: "alice", Email: "a@x.com", HashedPassword: "hashed"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not populated from RETURNING")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email constraint", "users_email_key", common.ErrDuplicateEmail},
		{"username constraint", "users_username_key", common.ErrDuplicateUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			defer db.Close()
			repo := NewPgUserRepository(db)

			mock.ExpectQuery(`INSERT INTO users`).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), &model.User{ID: "u1"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUserFindByEmail_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUserFindByID_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	repo := NewPgUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "username", "email", "hashed_password", "created_at", "updated_at"},
		).AddRow("u1", "alice", "a@x.com", "hashed", now, now))

	user, err := repo.FindByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if user.Username != "alice" || user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}
