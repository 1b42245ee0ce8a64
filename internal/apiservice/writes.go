package apiservice

import (
	"context"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

// CreateUser registers a profile. Offline writes get a "user_<ms>" id and
// are not replayed later.
func (s *Service) CreateUser(ctx context.Context, u domain.User) Result[string] {
	return s.create(ctx, "CreateUser", "/users", "user", u)
}

// CreateTestRecord uploads a completed test record.
func (s *Service) CreateTestRecord(ctx context.Context, r domain.TestRecord) Result[string] {
	return s.create(ctx, "CreateTestRecord", "/test-records", "record", r)
}

// CreateUserAnswer uploads one answer.
func (s *Service) CreateUserAnswer(ctx context.Context, a domain.UserAnswer) Result[string] {
	return s.create(ctx, "CreateUserAnswer", "/user-answers", "answer", a)
}
