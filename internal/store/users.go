package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists signals the username or email is already taken.
	ErrUserExists = fmt.Errorf("%w: user already exists", ErrConflict)
	// ErrUserNotFound signals a missing user record.
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)
	// ErrInvalidUser indicates validation failure for user data.
	ErrInvalidUser = fmt.Errorf("%w: invalid user", ErrInvalid)
)

// User is a registered account. The password hash never leaves the store.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser carries the fields required to register a user.
type NewUser struct {
	Username string
	Email    string
	Password string
}

// UserUpdate carries replacement fields for an existing user. A blank
// Password keeps the current one.
type UserUpdate struct {
	Username string
	Email    string
	Password string
}

// CreateUser registers a new user. Duplicate usernames or emails are
// rejected and leave no row behind.
func (s *Store) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	nu.Email = strings.TrimSpace(nu.Email)
	if err := validateUserFields(nu.Username, nu.Email); err != nil {
		return User{}, err
	}
	if nu.Password == "" {
		return User{}, fmt.Errorf("%w: password is required", ErrInvalidUser)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	var u User
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, created_at
	`, nu.Username, nu.Email, hash).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, email, created_at
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// GetUser returns a single user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateUser replaces username and email, and the password when one is
// provided. Uniqueness is re-checked against every other user.
func (s *Store) UpdateUser(ctx context.Context, id int64, up UserUpdate) (User, error) {
	up.Username = strings.TrimSpace(up.Username)
	up.Email = strings.TrimSpace(up.Email)
	if err := validateUserFields(up.Username, up.Email); err != nil {
		return User{}, err
	}

	var (
		res sql.Result
		err error
	)
	if up.Password != "" {
		var hash []byte
		hash, err = bcrypt.GenerateFromPassword([]byte(up.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		res, err = s.db.ExecContext(ctx, `
			UPDATE users
			SET username = $1, email = $2, password_hash = $3
			WHERE id = $4
		`, up.Username, up.Email, hash, id)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE users
			SET username = $1, email = $2
			WHERE id = $3
		`, up.Username, up.Email, id)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return User{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return User{}, ErrUserNotFound
	}

	return s.GetUser(ctx, id)
}

// DeleteUser removes a user and everything the user owns: playlist entries
// of the user's playlists, the playlists, play history, ratings, likes,
// follows, and comments, all in one transaction. The returned count covers
// the user row only; 0 means the id was absent.
func (s *Store) DeleteUser(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cascades := []struct {
			what  string
			query string
		}{
			{"playlist entries", `DELETE FROM playlist_songs WHERE playlist_id IN (SELECT id FROM playlists WHERE user_id = $1)`},
			{"playlists", `DELETE FROM playlists WHERE user_id = $1`},
			{"play history", `DELETE FROM play_history WHERE user_id = $1`},
			{"ratings", `DELETE FROM song_ratings WHERE user_id = $1`},
			{"likes", `DELETE FROM song_likes WHERE user_id = $1`},
			{"follows", `DELETE FROM artist_follows WHERE user_id = $1`},
			{"comments", `DELETE FROM song_comments WHERE user_id = $1`},
		}
		for _, c := range cascades {
			if _, err := tx.ExecContext(ctx, c.query, id); err != nil {
				return fmt.Errorf("delete user %s: %w", c.what, err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func validateUserFields(username, email string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", ErrInvalidUser)
	case len(username) > 50:
		return fmt.Errorf("%w: username exceeds 50 characters", ErrInvalidUser)
	case email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidUser)
	case len(email) > 100:
		return fmt.Errorf("%w: email exceeds 100 characters", ErrInvalidUser)
	case !strings.Contains(email, "@"):
		return fmt.Errorf("%w: email is malformed", ErrInvalidUser)
	}
	return nil
}

func usernameByID(ctx context.Context, q querier, id int64) (string, error) {
	var username string
	err := q.QueryRowContext(ctx, `
		SELECT username FROM users WHERE id = $1
	`, id).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	return username, nil
}
