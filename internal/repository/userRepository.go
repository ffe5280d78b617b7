package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/japi-express/shipment-service/internal/domain"
)

var ErrEmailTaken = errors.New("email already registered")

type UserRepo interface {
	AddUser(ctx context.Context, u *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, role domain.Role, status domain.UserStatus) ([]domain.User, error)
	SetUserStatus(ctx context.Context, id int64, status domain.UserStatus) (bool, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(p *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: p}
}

func (p *UserRepository) AddUser(ctx context.Context, u *domain.User) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO japi.users (name, email, phone, address, type, status, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.Phone, u.Address, string(u.Role), string(u.Status), u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

const userColumns = `id, name, email, phone, address, type, status, password_hash, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.Role, &u.Status, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(p.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM japi.users WHERE email = $1`, email))
}

func (p *UserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(p.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM japi.users WHERE id = $1`, id))
}

// ListUsers filters by role and status; the zero value of either means "any".
func (p *UserRepository) ListUsers(ctx context.Context, role domain.Role, status domain.UserStatus) ([]domain.User, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+userColumns+` FROM japi.users
		 WHERE ($1 = '' OR type = $1) AND ($2 = '' OR status = $2)
		 ORDER BY id`,
		string(role), string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.Role, &u.Status, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (p *UserRepository) SetUserStatus(ctx context.Context, id int64, status domain.UserStatus) (bool, error) {
	ct, err := p.pool.Exec(ctx,
		`UPDATE japi.users SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (p *UserRepository) DeleteUser(ctx context.Context, id int64) (bool, error) {
	ct, err := p.pool.Exec(ctx, `DELETE FROM japi.users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
