package repository

import (
	"context"
	"errors"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, age, password_hash, tokens, avatar IS NOT NULL, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Age,
		&user.PasswordHash,
		&user.Tokens,
		&user.AvatarSet,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// создаем пользователя
func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
	INSERT INTO "user" (name, email, age, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query, user.Name, user.Email, user.Age, user.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrEmailTaken
		}
		return nil, err
	}

	return created, nil
}

// получаем данные по id
func (r *UserRepository) GetById(ctx context.Context, id int) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// UpdateProfile - обновляем только переданные поля
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, update *entity.ProfileUpdate) (*entity.User, error) {
	query := `
	UPDATE "user"
	SET name = COALESCE($1, name),
	    email = COALESCE($2, email),
	    password_hash = COALESCE($3, password_hash),
	    age = COALESCE($4, age),
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = $5
	RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query,
		update.Name, update.Email, update.PasswordHash, update.Age, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, entity.ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Delete - удаляем пользователя вместе с аватаркой и сессиями
func (r *UserRepository) Delete(ctx context.Context, id int) (*entity.User, error) {
	query := `DELETE FROM "user" WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) AddToken(ctx context.Context, id int, tokenHash string) error {
	query := `UPDATE "user" SET tokens = array_append(tokens, $1) WHERE id = $2`
	return r.execOne(ctx, query, tokenHash, id)
}

func (r *UserRepository) RemoveToken(ctx context.Context, id int, tokenHash string) error {
	query := `UPDATE "user" SET tokens = array_remove(tokens, $1) WHERE id = $2`
	return r.execOne(ctx, query, tokenHash, id)
}

func (r *UserRepository) ClearTokens(ctx context.Context, id int) error {
	query := `UPDATE "user" SET tokens = '{}' WHERE id = $1`
	return r.execOne(ctx, query, id)
}

// SetAvatar - одна UPDATE, старая аватарка заменяется целиком
func (r *UserRepository) SetAvatar(ctx context.Context, userID int, data []byte) error {
	query := `UPDATE "user" SET avatar = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	return r.execOne(ctx, query, data, userID)
}

// ClearAvatar - повторный вызов не ошибка
func (r *UserRepository) ClearAvatar(ctx context.Context, userID int) error {
	query := `UPDATE "user" SET avatar = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	return r.execOne(ctx, query, userID)
}

// GetAvatar возвращает nil, nil если нет пользователя или аватарки
func (r *UserRepository) GetAvatar(ctx context.Context, userID int) ([]byte, error) {
	query := `SELECT avatar FROM "user" WHERE id = $1`

	var data []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return data, nil
}

// ListWithoutAvatar - id пользователей без аватарки, по возрастанию
func (r *UserRepository) ListWithoutAvatar(ctx context.Context) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM "user" WHERE avatar IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// execOne - UPDATE по id; если строки нет, значит нет пользователя
func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}
