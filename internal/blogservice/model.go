package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/inkwell-app/inkwell/internal/common"
	"github.com/inkwell-app/inkwell/internal/tagservice"
)

var (
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ownerID returns the author id of a blog, reading through q so the lookup
// can take part in a caller's transaction.
func ownerID(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, blogID int) (int, error) {
	var id int
	err := q.QueryRowContext(ctx, "SELECT user_id FROM blogs WHERE id = $1", blogID).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, common.ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return id, nil
}

func (m *BlogModel) insert(ctx context.Context, title, content string, tagNames []string, userID int) (int, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO blogs (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	var blogID int
	err = tx.QueryRowContext(ctx, query, title, content, userID).Scan(&blogID)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "blogs_user_id_fkey"):
			return 0, ErrUserForeignKey
		default:
			return 0, err
		}
	}

	if err := insertTagLinks(tx, ctx, blogID, tagNames); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return blogID, nil
}

// updateBlog replaces title, content and the whole tag association set. The
// ownership check runs inside the same transaction as the write.
func (m *BlogModel) updateBlog(ctx context.Context, blog *Blog, tagNames []string, userID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	owner, err := ownerID(ctx, tx, blog.ID)
	if err != nil {
		return err
	}
	if owner != userID {
		return common.ErrNotPermitted
	}

	query := `
		UPDATE blogs
		SET title = $1, content = $2, updated_at = NOW(), version = version + 1
		WHERE id = $3
		RETURNING version, created_at, updated_at`

	err = tx.QueryRowContext(ctx, query, blog.Title, blog.Content, blog.ID).Scan(&blog.Version, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM blog_tags WHERE blog_id = $1", blog.ID)
	if err != nil {
		return err
	}

	if err := insertTagLinks(tx, ctx, blog.ID, tagNames); err != nil {
		return err
	}

	return tx.Commit()
}

// deleteBlog removes the blog together with its comments, tag links and image
// rows in one transaction. The collected image file paths are returned so the
// caller can remove the files from disk after the commit.
func (m *BlogModel) deleteBlog(ctx context.Context, blogID, userID int) ([]string, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	owner, err := ownerID(ctx, tx, blogID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, common.ErrNotPermitted
	}

	rows, err := tx.QueryContext(ctx, "SELECT file_path FROM blog_images WHERE blog_id = $1", blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, stmt := range []string{
		"DELETE FROM comments WHERE blog_id = $1",
		"DELETE FROM blog_images WHERE blog_id = $1",
		"DELETE FROM blog_tags WHERE blog_id = $1",
		"DELETE FROM blogs WHERE id = $1",
	} {
		if _, err := tx.ExecContext(ctx, stmt, blogID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return paths, nil
}

const blogColumns = `b.id, b.title, b.content, b.view_count, b.user_id, b.created_at, b.updated_at, b.version, u.email, u.first_name, u.last_name`

func scanBlog(row interface{ Scan(dest ...any) error }, blog *Blog) error {
	return row.Scan(&blog.ID, &blog.Title, &blog.Content, &blog.ViewCount, &blog.Author.ID, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version, &blog.Author.Email, &blog.Author.FirstName, &blog.Author.LastName)
}

func (m *BlogModel) getBlogByID(ctx context.Context, id int) (*Blog, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.id = $1`, blogColumns)

	var blog Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, id), &blog)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if err := m.loadTags(ctx, &blog); err != nil {
		return nil, err
	}

	return &blog, nil
}

// getBlogAndIncrementView bumps the view counter and reads the row in a
// single statement, so concurrent viewers never lose an increment.
func (m *BlogModel) getBlogAndIncrementView(ctx context.Context, id int) (*Blog, error) {
	query := `
		UPDATE blogs b
		SET view_count = view_count + 1
		FROM users u
		WHERE b.id = $1 AND u.id = b.user_id
		RETURNING b.id, b.title, b.content, b.view_count, b.user_id, b.created_at, b.updated_at, b.version, u.email, u.first_name, u.last_name`

	var blog Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, id), &blog)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if err := m.loadTags(ctx, &blog); err != nil {
		return nil, err
	}

	return &blog, nil
}

func sortClause(sort string) string {
	switch sort {
	case SortByPopularity:
		return "b.view_count DESC, b.created_at DESC"
	case SortByTitle:
		return "LOWER(b.title) ASC"
	default:
		return "b.created_at DESC"
	}
}

// getBlogs lists blogs with optional substring search over title and content
// and an optional tag filter. The tag filter is a union: any requested tag
// matches. The window count avoids a second round trip for the total.
func (m *BlogModel) getBlogs(ctx context.Context, f SearchFilters) ([]Blog, common.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE ($1 = '' OR b.title ILIKE '%%' || $1 || '%%' OR b.content ILIKE '%%' || $1 || '%%')
		AND (cardinality($2::text[]) = 0 OR EXISTS (
			SELECT 1 FROM blog_tags bt
			JOIN tags t ON bt.tag_id = t.id
			WHERE bt.blog_id = b.id AND t.name = ANY($2::text[])))
		ORDER BY %s
		LIMIT $3 OFFSET $4`, blogColumns, sortClause(f.Sort))

	args := []any{f.Search, pq.Array(f.Tags), f.Limit(), f.Offset()}

	return m.queryBlogs(ctx, query, f.Filters, args...)
}

func (m *BlogModel) getBlogsByUserID(ctx context.Context, userID int, f common.Filters) ([]Blog, common.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`, blogColumns)

	return m.queryBlogs(ctx, query, f, userID, f.Limit(), f.Offset())
}

func (m *BlogModel) queryBlogs(ctx context.Context, query string, f common.Filters, args ...any) ([]Blog, common.Metadata, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		err := rows.Scan(&totalRecords, &blog.ID, &blog.Title, &blog.Content, &blog.ViewCount, &blog.Author.ID, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version, &blog.Author.Email, &blog.Author.FirstName, &blog.Author.LastName)
		if err != nil {
			return nil, common.Metadata{}, err
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Metadata{}, err
	}

	if err := m.loadTagsForAll(ctx, blogs); err != nil {
		return nil, common.Metadata{}, err
	}

	metadata := common.CalculateMetadata(totalRecords, f.Page, f.PageSize)

	return blogs, metadata, nil
}

func (m *BlogModel) loadTags(ctx context.Context, blog *Blog) error {
	blogs := []Blog{*blog}
	if err := m.loadTagsForAll(ctx, blogs); err != nil {
		return err
	}
	blog.Tags = blogs[0].Tags
	return nil
}

// loadTagsForAll eagerly attaches tags to every listed blog in one round
// trip.
func (m *BlogModel) loadTagsForAll(ctx context.Context, blogs []Blog) error {
	ids := make([]int, 0, len(blogs))
	index := make(map[int]int, len(blogs))
	for i := range blogs {
		blogs[i].Tags = []tagservice.Tag{}
		ids = append(ids, blogs[i].ID)
		index[blogs[i].ID] = i
	}

	if len(ids) == 0 {
		return nil
	}

	query := `
		SELECT bt.blog_id, t.id, t.name, t.color, t.created_at
		FROM blog_tags bt
		JOIN tags t ON bt.tag_id = t.id
		WHERE bt.blog_id = ANY($1::bigint[])
		ORDER BY t.name ASC`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var blogID int
		var tag tagservice.Tag
		if err := rows.Scan(&blogID, &tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return err
		}
		i := index[blogID]
		blogs[i].Tags = append(blogs[i].Tags, tag)
	}

	return rows.Err()
}

// insertTagLinks resolves each canonical name with the same on-conflict
// find-or-create the tag service uses and links it to the blog. Names must
// already be normalized and deduplicated.
func insertTagLinks(tx *sql.Tx, ctx context.Context, blogID int, names []string) error {
	for _, name := range names {
		_, err := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
		if err != nil {
			return err
		}

		var tagID int
		err = tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = $1", name).Scan(&tagID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, "INSERT INTO blog_tags (blog_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", blogID, tagID)
		if err != nil {
			return err
		}
	}

	return nil
}
