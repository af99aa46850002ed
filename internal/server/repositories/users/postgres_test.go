package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

var userCols = []string{"id", "username", "email", "password_hash", "secret_key", "profile_url", "totp_secret", "totp_enabled", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRow(id int64, name, email string) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(id, name, email, "hash", "sealed-key", "", "", false, time.Unix(0, 0))
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password_hash,\s*secret_key,\s*profile_url\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at$`

	created := time.Now()
	mock.ExpectQuery(q).
		WithArgs("alice", "a@x.com", "hash", "sealed-key", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))

	u := &models.User{UserName: "alice", Email: "a@x.com", PasswordHash: "hash", SecretKey: "sealed-key"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.UserName != "alice" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "a@x.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
	if got := dbx.ConstraintName(err); got != "users_email_key" {
		t.Fatalf("constraint name lost: %q", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetters_Found(t *testing.T) {
	tests := []struct {
		name  string
		query string
		arg   any
		call  func(r *PostgresRepository) (*models.User, error)
	}{
		{"by id", `FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`, int64(7),
			func(r *PostgresRepository) (*models.User, error) { return r.GetByID(context.Background(), 7) }},
		{"by email", `FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`, "a@x.com",
			func(r *PostgresRepository) (*models.User, error) {
				return r.GetByEmail(context.Background(), "a@x.com")
			}},
		{"by username", `FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`, "alice",
			func(r *PostgresRepository) (*models.User, error) {
				return r.GetByUserName(context.Background(), "alice")
			}},
		{"by login", `FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s+OR\s+username\s*=\s*\$1`, "alice",
			func(r *PostgresRepository) (*models.User, error) { return r.GetByLogin(context.Background(), "alice") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(tt.query).WithArgs(tt.arg).WillReturnRows(userRow(7, "alice", "a@x.com"))

			got, err := tt.call(repo)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != 7 || got.Email != "a@x.com" || got.SecretKey != "sealed-key" {
				t.Fatalf("unexpected user: %+v", got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id`).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+username\s*=\s*\$2,\s*email\s*=\s*\$3,\s*password_hash\s*=\s*\$4,\s*profile_url\s*=\s*\$5\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`
	mock.ExpectQuery(q).
		WithArgs(int64(7), "bob", "b@x.com", "newhash", "https://img").
		WillReturnRows(userRow(7, "bob", "b@x.com"))

	got, err := repo.Update(context.Background(), &models.User{
		ID: 7, UserName: "bob", Email: "b@x.com", PasswordHash: "newhash", ProfileURL: "https://img",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.UserName != "bob" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdateTOTP(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^UPDATE\s+users\s+SET\s+totp_secret\s*=\s*\$2,\s*totp_enabled\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs(int64(7), "sealed", true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(8), "", false).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateTOTP(context.Background(), 7, "sealed", true); err != nil {
		t.Fatalf("UpdateTOTP error: %v", err)
	}
	if err := repo.UpdateTOTP(context.Background(), 8, "", false); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestUpdateProfileURL(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+profile_url\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(7), "http://s3/avatars/x").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateProfileURL(context.Background(), 7, "http://s3/avatars/x"); err != nil {
		t.Fatalf("UpdateProfileURL error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`).
		WithArgs(int64(7)).
		WillReturnRows(userRow(7, "alice", "a@x.com"))

	got, err := repo.Delete(context.Background(), 7)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected user: %+v", got)
	}
}
