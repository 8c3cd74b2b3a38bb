package repository

import (
	"media-catalog/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Profile   ProfileRepository
	Session   SessionRepository
	Book      BookRepository
	Movie     MovieRepository
	Review    ReviewRepository
	Community CommunityRepository
	Post      PostRepository
	Comment   CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Profile:   NewProfileRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Book:      NewBookRepository(db, log),
		Movie:     NewMovieRepository(db, log),
		Review:    NewReviewRepository(db, log),
		Community: NewCommunityRepository(db, log),
		Post:      NewPostRepository(db, log),
		Comment:   NewCommentRepository(db, log),
	}
}
