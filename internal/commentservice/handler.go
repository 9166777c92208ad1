package commentservice

import (
	"context"
	"database/sql"

	"github.com/inkwell-app/inkwell/internal/common"
)

func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{m: newCommentModel(db)}
}

// CreateComment adds a comment to an existing blog. Any authenticated user
// may comment; the parent blog must exist.
func (s *CommentService) CreateComment(ctx context.Context, blogID int, content string, userID int) (*Comment, error) {
	v := common.NewValidator()
	validateContent(v, content)
	validateInt(v, blogID, "blog_id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	id, err := s.m.insert(ctx, blogID, content, userID)
	if err != nil {
		return nil, err
	}

	return s.m.getByID(ctx, id)
}

// UpdateComment replaces the body and permanently marks the comment edited.
// Only the author may update it.
func (s *CommentService) UpdateComment(ctx context.Context, commentID int, content string, userID int) (*Comment, error) {
	v := common.NewValidator()
	validateContent(v, content)
	validateInt(v, commentID, "id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.update(ctx, commentID, content, userID); err != nil {
		return nil, err
	}

	return s.m.getByID(ctx, commentID)
}

// DeleteComment removes a comment. Only the author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID int) error {
	v := common.NewValidator()
	validateInt(v, commentID, "id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, commentID, userID)
}

// GetCommentsByBlogID lists a blog's comments newest first with a page total.
func (s *CommentService) GetCommentsByBlogID(ctx context.Context, blogID int, f common.Filters) ([]Comment, common.Metadata, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	common.ValidateFilters(v, f)
	if !v.Valid() {
		return nil, common.Metadata{}, v.ValidationError()
	}

	return s.m.getByBlogID(ctx, blogID, f)
}

// GetCommentsByUserID lists every comment a user has written, newest first.
func (s *CommentService) GetCommentsByUserID(ctx context.Context, userID int) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByUserID(ctx, userID)
}
