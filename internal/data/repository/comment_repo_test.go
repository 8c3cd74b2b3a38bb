package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"media-catalog/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"go.uber.org/zap"
)

func newComment() *entity.PostComment {
	now := time.Now()
	return &entity.PostComment{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PostID:  uuid.New(),
		UserID:  uuid.New(),
		Content: "first",
	}
}

func TestCreateCommentBumpsCountInTx(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock, zap.NewNop())
	comment := newComment()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO post_comments`).
		WithArgs(comment.ID, comment.PostID, comment.UserID, comment.Content, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE community_posts SET comment_count = comment_count \+ 1 WHERE id = \$1`).
		WithArgs(comment.PostID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateCommentMissingPostRollsBack(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock, zap.NewNop())
	comment := newComment()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO post_comments`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE community_posts SET comment_count`).
		WithArgs(comment.PostID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), comment)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("err = %v, want ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
