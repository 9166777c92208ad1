package commentservice

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/common"
)

func setupTestEnvironment(t *testing.T) (*CommentService, *sql.DB, int, int, int) {
	db := common.TestDB("file://../../migrations", t)

	var authorID, readerID, blogID int

	err := db.QueryRow(`INSERT INTO users (email, password_hash, first_name, last_name) VALUES ('author@example.com', 'x', 'Blog', 'Author') RETURNING id`).Scan(&authorID)
	require.NoError(t, err)
	err = db.QueryRow(`INSERT INTO users (email, password_hash, first_name, last_name) VALUES ('reader@example.com', 'x', 'Avid', 'Reader') RETURNING id`).Scan(&readerID)
	require.NoError(t, err)
	err = db.QueryRow(`INSERT INTO blogs (title, content, user_id) VALUES ('Post', 'body', $1) RETURNING id`, authorID).Scan(&blogID)
	require.NoError(t, err)

	return NewCommentService(db), db, authorID, readerID, blogID
}

func TestCreateComment(t *testing.T) {
	s, _, _, readerID, blogID := setupTestEnvironment(t)
	ctx := context.Background()

	comment, err := s.CreateComment(ctx, blogID, "nice post", readerID)
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Content)
	assert.False(t, comment.Edited)
	assert.Equal(t, readerID, comment.Author.ID)
	assert.Equal(t, blogID, comment.BlogID)

	t.Run("missing blog", func(t *testing.T) {
		_, err := s.CreateComment(ctx, 99999, "into the void", readerID)
		assert.ErrorIs(t, err, common.ErrRecordNotFound)
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := s.CreateComment(ctx, blogID, "", readerID)
		var validationErr common.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestUpdateComment(t *testing.T) {
	s, _, authorID, readerID, blogID := setupTestEnvironment(t)
	ctx := context.Background()

	comment, err := s.CreateComment(ctx, blogID, "first draft", readerID)
	require.NoError(t, err)
	require.False(t, comment.Edited)

	t.Run("author edit sets the flag", func(t *testing.T) {
		updated, err := s.UpdateComment(ctx, comment.ID, "second draft", readerID)
		require.NoError(t, err)
		assert.Equal(t, "second draft", updated.Content)
		assert.True(t, updated.Edited)
	})

	t.Run("flag stays set on further edits", func(t *testing.T) {
		updated, err := s.UpdateComment(ctx, comment.ID, "third draft", readerID)
		require.NoError(t, err)
		assert.True(t, updated.Edited)
	})

	t.Run("blog author cannot edit someone else's comment", func(t *testing.T) {
		_, err := s.UpdateComment(ctx, comment.ID, "hijacked", authorID)
		assert.ErrorIs(t, err, common.ErrNotPermitted)
	})

	t.Run("missing comment", func(t *testing.T) {
		_, err := s.UpdateComment(ctx, 99999, "ghost", readerID)
		assert.ErrorIs(t, err, common.ErrRecordNotFound)
	})
}

func TestDeleteComment(t *testing.T) {
	s, db, authorID, readerID, blogID := setupTestEnvironment(t)
	ctx := context.Background()

	comment, err := s.CreateComment(ctx, blogID, "delete me", readerID)
	require.NoError(t, err)

	t.Run("non-author is rejected", func(t *testing.T) {
		err := s.DeleteComment(ctx, comment.ID, authorID)
		assert.ErrorIs(t, err, common.ErrNotPermitted)
	})

	t.Run("author deletes", func(t *testing.T) {
		err := s.DeleteComment(ctx, comment.ID, readerID)
		require.NoError(t, err)

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestListComments(t *testing.T) {
	s, _, authorID, readerID, blogID := setupTestEnvironment(t)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		_, err := s.CreateComment(ctx, blogID, content, readerID)
		require.NoError(t, err)
	}
	_, err := s.CreateComment(ctx, blogID, "author reply", authorID)
	require.NoError(t, err)

	t.Run("by blog newest first", func(t *testing.T) {
		comments, metadata, err := s.GetCommentsByBlogID(ctx, blogID, common.Filters{Page: 0, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, comments, 2)
		assert.Equal(t, 4, metadata.TotalRecords)
		assert.Equal(t, "author reply", comments[0].Content)
	})

	t.Run("by user", func(t *testing.T) {
		comments, err := s.GetCommentsByUserID(ctx, readerID)
		require.NoError(t, err)
		assert.Len(t, comments, 3)
		for _, c := range comments {
			assert.Equal(t, readerID, c.Author.ID)
		}
	})
}
