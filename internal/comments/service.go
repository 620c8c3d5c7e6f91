package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrCommentNotFound = errors.New("comment not found")

type CreateCommentRequest struct {
	Party   string `json:"party" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

type Service interface {
	AddComment(ctx context.Context, appealID int64, userID uuid.UUID, req CreateCommentRequest) (*CaseComment, error)
	ListComments(ctx context.Context, appealID int64) ([]CaseComment, error)
	DeleteComment(ctx context.Context, id int64, userID uuid.UUID) error
}

type commentService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &commentService{repo: repo}
}

func (s *commentService) AddComment(ctx context.Context, appealID int64, userID uuid.UUID, req CreateCommentRequest) (*CaseComment, error) {
	comment := &CaseComment{
		AppealID: appealID,
		UserID:   userID,
		Party:    req.Party,
		Comment:  req.Comment,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, appealID int64) ([]CaseComment, error) {
	return s.repo.ListByAppeal(ctx, appealID)
}

func (s *commentService) DeleteComment(ctx context.Context, id int64, userID uuid.UUID) error {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return fmt.Errorf("%w: %d", ErrCommentNotFound, id)
	}
	if comment.UserID != userID {
		return errors.New("unauthorized")
	}
	return s.repo.Delete(ctx, id)
}
