package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/db"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already exists")
)

// Repository is the set of category queries. Every read fills TaskCount.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	// NameExists reports whether another category (id != excludeID) has name.
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	// Delete removes the row; the schema sets category_id to NULL on its tasks.
	Delete(ctx context.Context, id int64) error
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

const selectCategory = `
	SELECT c.id, c.name, c.description, c.color, c.created_at,
	       (SELECT COUNT(*) FROM tasks t WHERE t.category_id = c.id) AS task_count
	FROM categories c`

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.TaskCount); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.conn.Query(ctx, selectCategory+" ORDER BY c.id")
	if err != nil {
		return nil, apperror.NewDatabaseError("Database error occurred", err)
	}
	defer rows.Close()

	result := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("Database error occurred", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("Database error occurred", err)
	}
	return result, nil
}

// GetByID fetches one category.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	c, err := scanCategory(r.conn.QueryRow(ctx, selectCategory+" WHERE c.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperror.NewDatabaseError("Database error occurred", err)
	}
	return c, nil
}

// NameExists checks name uniqueness ahead of an insert or rename.
func (r *PostgresRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var found bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND id <> $2)`, name, excludeID,
	).Scan(&found)
	if err != nil {
		return false, apperror.NewDatabaseError("Database error occurred", err)
	}
	return found, nil
}

func writeErr(err error) error {
	if _, ok := db.UniqueViolation(err); ok {
		return ErrDuplicateName
	}
	return apperror.NewDatabaseError("Database error occurred", err)
}

// Create inserts c and fills in its ID.
func (r *PostgresRepository) Create(ctx context.Context, c *Category) error {
	err := r.conn.QueryRow(ctx,
		`INSERT INTO categories (name, description, color, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.Description, c.Color, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return writeErr(err)
	}
	return nil
}

// Update writes name, description and color of c.
func (r *PostgresRepository) Update(ctx context.Context, c *Category) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE categories SET name = $1, description = $2, color = $3 WHERE id = $4`,
		c.Name, c.Description, c.Color, c.ID,
	)
	if err != nil {
		return writeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("Database error occurred", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
