package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/db"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// Repository is the set of user queries. Usernames and emails are matched
// case-sensitively.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create inserts u and fills in its ID. Unique violations are reported as
	// ErrDuplicateUsername or ErrDuplicateEmail.
	Create(ctx context.Context, u *User) error
}

// Store is a Repository that can also run a group of calls in one transaction.
type Store interface {
	Repository
	WithTx(ctx context.Context, fn func(Repository) error) error
}

// PostgresRepository implements Store on top of pgx.
type PostgresRepository struct {
	conn db.Conn
}

// NewPostgresRepository creates a repository over a pool or transaction.
func NewPostgresRepository(conn db.Conn) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// WithTx runs fn with a repository bound to a fresh transaction.
func (r *PostgresRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return db.InTx(ctx, r.conn, func(tx db.Conn) error {
		return fn(&PostgresRepository{conn: tx})
	})
}

const selectUser = `SELECT id, username, email, password_hash, created_at, updated_at FROM users`

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg interface{}) (*User, error) {
	var u User
	err := r.conn.QueryRow(ctx, selectUser+" WHERE "+where, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperror.NewDatabaseError("Database error occurred", err)
	}
	return &u, nil
}

// GetByID fetches a user by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByUsername fetches a user by exact username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *PostgresRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var found bool
	if err := r.conn.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, apperror.NewDatabaseError("Database error occurred", err)
	}
	return found, nil
}

// UsernameExists reports whether the username is taken.
func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

// EmailExists reports whether the email is taken.
func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `INSERT INTO users (username, email, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id`
	err := r.conn.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return ErrDuplicateEmail
			}
			return ErrDuplicateUsername
		}
		return apperror.NewDatabaseError("Database error occurred", err)
	}
	return nil
}
