package data

import (
	"MatchOpsApi/internal/validator"
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"time"
)

const ScopeAuthentication = "authentication"

var AnonymousUser = &User{}

type User struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Activated bool      `json:"activated"`
	Version   int       `json:"-"`
}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

func ValidateTokenPlaintext(v *validator.Validator, tokenPlaintext string) {
	v.Check(tokenPlaintext != "", "token", "must be provided")
	v.Check(len(tokenPlaintext) == 26, "token", "must be 26 bytes long")
}

type UserModel struct {
	db *sql.DB
}

// GetForToken looks up the activated user owning an unexpired token of the given scope.
// Tokens are stored as SHA-256 hashes of their plaintext.
func (m *UserModel) GetForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*User,
	error) {
	tokenHash := sha256.Sum256([]byte(tokenPlaintext))
	stmt := `
		SELECT users.id, users.created_at, users.first_name, users.last_name, users.email,
			users.activated, users.version
		FROM users
		INNER JOIN tokens
		ON users.id = tokens.user_id
		WHERE tokens.hash = $1
		AND tokens.scope = $2
		AND tokens.expiry > $3`

	args := []any{tokenHash[:], tokenScope, time.Now()}

	var user User

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Activated,
		&user.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &user, nil
}
