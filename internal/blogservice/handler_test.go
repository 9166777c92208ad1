package blogservice

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/common"
)

func setupTestUser(t *testing.T, db *sql.DB, email string) int {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, 'x', 'Test', 'User')
		RETURNING id`

	var id int
	err := db.QueryRow(query, email).Scan(&id)
	require.NoError(t, err)

	return id
}

func setupTestService(t *testing.T) (*BlogService, *sql.DB, int) {
	db := common.TestDB("file://../../migrations", t)
	userID := setupTestUser(t, db, "author@example.com")
	return NewBlogService(db), db, userID
}

func TestCreateBlog(t *testing.T) {
	s, _, userID := setupTestService(t)
	ctx := context.Background()

	testCases := []struct {
		name        string
		req         *CreateBlogRequest
		wantTags    []string
		expectedErr error
	}{
		{
			name: "valid blog",
			req: &CreateBlogRequest{
				Title:   "Hello",
				Content: "World",
				Tags:    []string{"go", "rust"},
				UserID:  userID,
			},
			wantTags: []string{"go", "rust"},
		},
		{
			name: "duplicate and padded tags collapse",
			req: &CreateBlogRequest{
				Title:   "Tagged",
				Content: "body",
				Tags:    []string{"Go", " go ", "GO", "rust", ""},
				UserID:  userID,
			},
			wantTags: []string{"go", "rust"},
		},
		{
			name: "no tags",
			req: &CreateBlogRequest{
				Title:   "Untagged",
				Content: "body",
				UserID:  userID,
			},
			wantTags: []string{},
		},
		{
			name: "empty title",
			req: &CreateBlogRequest{
				Title:   "",
				Content: "body",
				UserID:  userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "empty content",
			req: &CreateBlogRequest{
				Title:   "Title",
				Content: "",
				UserID:  userID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"content": "must be provided"}},
		},
		{
			name: "unknown user",
			req: &CreateBlogRequest{
				Title:   "Title",
				Content: "body",
				UserID:  99999,
			},
			expectedErr: ErrUserForeignKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blog, err := s.CreateBlog(ctx, tc.req)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr.Error(), err.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.req.Title, blog.Title)
			assert.Equal(t, 0, blog.ViewCount)
			assert.Equal(t, userID, blog.Author.ID)

			names := make([]string, 0, len(blog.Tags))
			for _, tag := range blog.Tags {
				names = append(names, tag.Name)
			}
			assert.ElementsMatch(t, tc.wantTags, names)
		})
	}
}

func TestGetBlogByIDAndIncrementView(t *testing.T) {
	s, _, userID := setupTestService(t)
	ctx := context.Background()

	blog, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "Views", Content: "body", UserID: userID})
	require.NoError(t, err)

	got, err := s.GetBlogByIDAndIncrementView(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	got, err = s.GetBlogByIDAndIncrementView(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)

	// plain reads leave the counter alone
	got, err = s.GetBlogByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)

	_, err = s.GetBlogByIDAndIncrementView(ctx, 99999)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}

func TestViewCountConcurrent(t *testing.T) {
	s, db, userID := setupTestService(t)
	ctx := context.Background()

	blog, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "Race", Content: "body", UserID: userID})
	require.NoError(t, err)

	const viewers = 25

	var wg sync.WaitGroup
	errs := make(chan error, viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.GetBlogByIDAndIncrementView(ctx, blog.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	var count int
	err = db.QueryRow("SELECT view_count FROM blogs WHERE id = $1", blog.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, viewers, count)
}

func TestUpdateBlog(t *testing.T) {
	s, db, userID := setupTestService(t)
	ctx := context.Background()

	otherID := setupTestUser(t, db, "other@example.com")

	blog, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "Original", Content: "body", Tags: []string{"go"}, UserID: userID})
	require.NoError(t, err)

	t.Run("author replaces content and tags", func(t *testing.T) {
		updated, err := s.UpdateBlog(ctx, &UpdateBlogRequest{
			ID:      blog.ID,
			Title:   "Changed",
			Content: "new body",
			Tags:    []string{"rust", "wasm"},
			UserID:  userID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Changed", updated.Title)

		names := make([]string, 0, len(updated.Tags))
		for _, tag := range updated.Tags {
			names = append(names, tag.Name)
		}
		assert.ElementsMatch(t, []string{"rust", "wasm"}, names)
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		_, err := s.UpdateBlog(ctx, &UpdateBlogRequest{
			ID:      blog.ID,
			Title:   "Hijacked",
			Content: "nope",
			UserID:  otherID,
		})
		assert.ErrorIs(t, err, common.ErrNotPermitted)

		// the blog is untouched
		got, err := s.GetBlogByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, "Changed", got.Title)
	})

	t.Run("missing blog", func(t *testing.T) {
		_, err := s.UpdateBlog(ctx, &UpdateBlogRequest{
			ID:      99999,
			Title:   "Ghost",
			Content: "body",
			UserID:  userID,
		})
		assert.ErrorIs(t, err, common.ErrRecordNotFound)
	})
}

func TestDeleteBlogCascades(t *testing.T) {
	s, db, userID := setupTestService(t)
	ctx := context.Background()

	otherID := setupTestUser(t, db, "other@example.com")

	blog, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "Doomed", Content: "body", Tags: []string{"go"}, UserID: userID})
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO comments (content, blog_id, user_id) VALUES ('bye', $1, $2)", blog.ID, otherID)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO blog_images (file_name, original_name, file_path, content_type, file_size, blog_id) VALUES ('f.png', 'o.png', '/tmp/f.png', 'image/png', 10, $1)", blog.ID)
	require.NoError(t, err)

	t.Run("non-author is rejected", func(t *testing.T) {
		_, err := s.DeleteBlog(ctx, blog.ID, otherID)
		assert.ErrorIs(t, err, common.ErrNotPermitted)
	})

	t.Run("author deletes with children", func(t *testing.T) {
		paths, err := s.DeleteBlog(ctx, blog.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, []string{"/tmp/f.png"}, paths)

		for _, table := range []string{"blogs", "comments", "blog_images", "blog_tags"} {
			var count int
			err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
			require.NoError(t, err)
			assert.Zero(t, count, table)
		}

		_, err = s.GetBlogByID(ctx, blog.ID)
		assert.ErrorIs(t, err, common.ErrRecordNotFound)
	})
}

func TestIsAuthor(t *testing.T) {
	s, db, userID := setupTestService(t)
	ctx := context.Background()

	otherID := setupTestUser(t, db, "other@example.com")

	blog, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "Mine", Content: "body", UserID: userID})
	require.NoError(t, err)

	ok, err := s.IsAuthor(ctx, blog.ID, userID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsAuthor(ctx, blog.ID, otherID)
	require.NoError(t, err)
	assert.False(t, ok)

	// a missing blog is not an error
	ok, err = s.IsAuthor(ctx, 99999, userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetBlogs(t *testing.T) {
	s, _, userID := setupTestService(t)
	ctx := context.Background()

	seed := []struct {
		title string
		tags  []string
		views int
	}{
		{title: "alpha", tags: []string{"go"}},
		{title: "bravo", tags: []string{"go", "rust"}},
		{title: "charlie", tags: []string{"rust"}},
	}

	ids := map[string]int{}
	for _, b := range seed {
		blog, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: b.title, Content: b.title + " body", Tags: b.tags, UserID: userID})
		require.NoError(t, err)
		ids[b.title] = blog.ID
	}

	// give bravo the highest view count
	for i := 0; i < 3; i++ {
		_, err := s.GetBlogByIDAndIncrementView(ctx, ids["bravo"])
		require.NoError(t, err)
	}

	titles := func(blogs []Blog) []string {
		out := make([]string, 0, len(blogs))
		for _, b := range blogs {
			out = append(out, b.Title)
		}
		return out
	}

	baseFilters := common.Filters{Page: 0, PageSize: 10}

	t.Run("sort by title", func(t *testing.T) {
		blogs, metadata, err := s.GetBlogs(ctx, SearchFilters{Filters: common.Filters{Page: 0, PageSize: 10, Sort: SortByTitle}})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "bravo", "charlie"}, titles(blogs))
		assert.Equal(t, 3, metadata.TotalRecords)
	})

	t.Run("sort by popularity", func(t *testing.T) {
		blogs, _, err := s.GetBlogs(ctx, SearchFilters{Filters: common.Filters{Page: 0, PageSize: 10, Sort: SortByPopularity}})
		require.NoError(t, err)
		assert.Equal(t, "bravo", blogs[0].Title)
	})

	t.Run("tag filter is a union", func(t *testing.T) {
		blogs, _, err := s.GetBlogs(ctx, SearchFilters{Tags: []string{"go", "rust"}, Filters: baseFilters})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alpha", "bravo", "charlie"}, titles(blogs))

		blogs, _, err = s.GetBlogs(ctx, SearchFilters{Tags: []string{"go"}, Filters: baseFilters})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alpha", "bravo"}, titles(blogs))
	})

	t.Run("search over title and content", func(t *testing.T) {
		blogs, _, err := s.GetBlogs(ctx, SearchFilters{Search: "CHARLIE", Filters: baseFilters})
		require.NoError(t, err)
		assert.Equal(t, []string{"charlie"}, titles(blogs))
	})

	t.Run("pagination metadata", func(t *testing.T) {
		blogs, metadata, err := s.GetBlogs(ctx, SearchFilters{Filters: common.Filters{Page: 1, PageSize: 2}})
		require.NoError(t, err)
		assert.Len(t, blogs, 1)
		assert.Equal(t, 3, metadata.TotalRecords)
		assert.Equal(t, 1, metadata.LastPage)
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, _, err := s.GetBlogs(ctx, SearchFilters{Filters: common.Filters{Page: 0, PageSize: 10, Sort: "views"}})
		var validationErr common.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestGetBlogsByUserID(t *testing.T) {
	s, db, userID := setupTestService(t)
	ctx := context.Background()

	otherID := setupTestUser(t, db, "other@example.com")

	for _, title := range []string{"first", "second"} {
		_, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: title, Content: "body", UserID: userID})
		require.NoError(t, err)
	}
	_, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "theirs", Content: "body", UserID: otherID})
	require.NoError(t, err)

	blogs, metadata, err := s.GetBlogsByUserID(ctx, userID, common.Filters{Page: 0, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, blogs, 2)
	assert.Equal(t, 2, metadata.TotalRecords)
	for _, blog := range blogs {
		assert.Equal(t, userID, blog.Author.ID)
	}
}
