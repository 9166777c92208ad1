package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwell-app/inkwell/internal/common"
	"github.com/inkwell-app/inkwell/internal/tagservice"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db)}
}

type CreateBlogRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	UserID  int      `json:"-"`
}

// normalizeTagNames canonicalizes and deduplicates the requested tag names.
// Empty-after-trim names are dropped, so a blog never links the same tag
// twice.
func normalizeTagNames(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		name := tagservice.Normalize(r)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// CreateBlog creates a new blog post owned by the acting user, resolving each
// tag name with find-or-create semantics. The view count starts at zero.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	content := sanitizeMarkdown(req.Content)

	id, err := s.m.insert(ctx, req.Title, content, normalizeTagNames(req.Tags), req.UserID)
	if err != nil {
		return nil, err
	}

	return s.m.getBlogByID(ctx, id)
}

// GetBlogByID returns a blog post without touching its view counter.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogByID(ctx, id)
}

// GetBlogByIDAndIncrementView returns a blog post after unconditionally
// adding one view. A missing blog fails with common.ErrRecordNotFound and
// leaves no partial increment behind.
func (s *BlogService) GetBlogByIDAndIncrementView(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogAndIncrementView(ctx, id)
}

type UpdateBlogRequest struct {
	ID      int      `json:"-"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	UserID  int      `json:"-"`
}

// UpdateBlog replaces the title, content and tag set of a blog post. Only the
// author may update it; anyone else fails with common.ErrNotPermitted.
func (s *BlogService) UpdateBlog(ctx context.Context, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateInt(v, req.ID, "id")
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &Blog{
		ID:      req.ID,
		Title:   req.Title,
		Content: sanitizeMarkdown(req.Content),
	}

	err := s.m.updateBlog(ctx, blog, normalizeTagNames(req.Tags), req.UserID)
	if err != nil {
		return nil, err
	}

	return s.m.getBlogByID(ctx, req.ID)
}

// DeleteBlog removes a blog post with its comments, images and tag links.
// Only the author may delete it. The returned paths are the image files that
// must be removed from disk now that the rows are gone.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID, userID int) ([]string, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.deleteBlog(ctx, blogID, userID)
}

// IsAuthor reports whether the user authored the blog. A missing blog is
// simply not authored by anyone; it is not an error.
func (s *BlogService) IsAuthor(ctx context.Context, blogID, userID int) (bool, error) {
	owner, err := ownerID(ctx, s.m.db, blogID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return false, nil
		default:
			return false, err
		}
	}

	return owner == userID, nil
}

// GetBlogs lists blogs with the requested sort, search term and tag filter.
func (s *BlogService) GetBlogs(ctx context.Context, f SearchFilters) ([]Blog, common.Metadata, error) {
	if f.Sort == "" {
		f.Sort = SortByDate
	}

	v := common.NewValidator()
	common.ValidateFilters(v, f.Filters, SortByDate, SortByPopularity, SortByTitle)
	if !v.Valid() {
		return nil, common.Metadata{}, v.ValidationError()
	}

	f.Tags = normalizeTagNames(f.Tags)

	return s.m.getBlogs(ctx, f)
}

// GetBlogsByUserID lists a user's blogs newest first.
func (s *BlogService) GetBlogsByUserID(ctx context.Context, userID int, f common.Filters) ([]Blog, common.Metadata, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	common.ValidateFilters(v, f)
	if !v.Valid() {
		return nil, common.Metadata{}, v.ValidationError()
	}

	return s.m.getBlogsByUserID(ctx, userID, f)
}
