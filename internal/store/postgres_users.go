package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostgresUsers backs the users table.
type PostgresUsers struct {
	db *sql.DB
}

func NewPostgresUsers(db *sql.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

func (s *PostgresUsers) CreateUser(ctx context.Context, email, passwordHash, role string) (User, error) {
	u := User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		CreatedAt: time.Now(),
		IsActive:  true,
	}
	if u.Role == "" {
		u.Role = "parent"
	}
	u.PasswordHash = passwordHash

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`, u.ID, u.Email, nullable(passwordHash), u.Role, u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *PostgresUsers) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at, is_active
		FROM users
		WHERE LOWER(email) = $1
	`, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func (s *PostgresUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at, is_active
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var passwordHash sql.NullString
	err := row.Scan(&u.ID, &u.Email, &passwordHash, &u.Role, &u.CreatedAt, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = passwordHash.String
	return &u, nil
}
