package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

// UserUpdate lists the profile fields UpdateUser may change. Nil fields are
// left untouched.
type UserUpdate struct {
	Nickname      *string
	AvatarEmoji   *string
	Gender        *string
	Age           *int
	Occupation    *string
	SelectedModel *string
}

// GetCurrentUser returns the local profile. If the users table is empty the
// default profile is returned without being written.
func (s *Store) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var row userRow
	err = db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		u := domain.DefaultUser(s.now())
		return &u, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query current user: %w", err)
	}

	u, err := rowToUser(row)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser changes the given fields of an existing user.
func (s *Store) UpdateUser(ctx context.Context, id string, upd UserUpdate) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Nickname != nil {
		set("nickname", *upd.Nickname)
	}
	if upd.AvatarEmoji != nil {
		set("avatar_emoji", *upd.AvatarEmoji)
	}
	if upd.Gender != nil {
		set("gender", nullString(*upd.Gender))
	}
	if upd.Age != nil {
		set("age", *upd.Age)
	}
	if upd.Occupation != nil {
		set("occupation", nullString(*upd.Occupation))
	}
	if upd.SelectedModel != nil {
		set("selected_model", nullString(*upd.SelectedModel))
	}
	set("updated_at", formatTime(s.now()))
	args = append(args, id)

	res, err := db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RefreshUserStats recomputes a user's test count and the number of distinct
// days (UTC) on which tests were taken.
func (s *Store) RefreshUserStats(ctx context.Context, userID string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `UPDATE users SET
		test_count = (SELECT COUNT(*) FROM test_records WHERE user_id = ?),
		test_days = (SELECT COUNT(DISTINCT substr(created_at, 1, 10)) FROM test_records WHERE user_id = ?),
		updated_at = ?
		WHERE id = ?`, userID, userID, formatTime(s.now()), userID)
	if err != nil {
		return fmt.Errorf("refresh stats for %s: %w", userID, err)
	}
	return nil
}
