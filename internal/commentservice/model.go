package commentservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkwell-app/inkwell/internal/common"
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

const commentColumns = `c.id, c.content, c.edited, c.blog_id, c.user_id, c.created_at, c.updated_at, c.version, u.email, u.first_name, u.last_name`

func scanComment(row interface{ Scan(dest ...any) error }, c *Comment) error {
	return row.Scan(&c.ID, &c.Content, &c.Edited, &c.BlogID, &c.Author.ID, &c.CreatedAt, &c.UpdatedAt, &c.Version, &c.Author.Email, &c.Author.FirstName, &c.Author.LastName)
}

func (m *CommentModel) insert(ctx context.Context, blogID int, content string, userID int) (int, error) {
	query := `
		INSERT INTO comments (content, blog_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	err := m.db.QueryRowContext(ctx, query, content, blogID, userID).Scan(&id)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "comments_blog_id_fkey"):
			return 0, common.ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return id, nil
}

func (m *CommentModel) getByID(ctx context.Context, id int) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1`, commentColumns)

	var c Comment
	err := scanComment(m.db.QueryRowContext(ctx, query, id), &c)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

// update replaces the comment body and marks it edited. The author check and
// the write share one transaction.
func (m *CommentModel) update(ctx context.Context, id int, content string, userID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.checkAuthor(ctx, tx, id, userID); err != nil {
		return err
	}

	query := `
		UPDATE comments
		SET content = $1, edited = TRUE, updated_at = NOW(), version = version + 1
		WHERE id = $2`

	if _, err := tx.ExecContext(ctx, query, content, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (m *CommentModel) delete(ctx context.Context, id, userID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.checkAuthor(ctx, tx, id, userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id); err != nil {
		return err
	}

	return tx.Commit()
}

func (m *CommentModel) checkAuthor(ctx context.Context, tx *sql.Tx, id, userID int) error {
	var owner int
	err := tx.QueryRowContext(ctx, "SELECT user_id FROM comments WHERE id = $1", id).Scan(&owner)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	if owner != userID {
		return common.ErrNotPermitted
	}

	return nil
}

func (m *CommentModel) getByBlogID(ctx context.Context, blogID int, f common.Filters) ([]Comment, common.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.blog_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`, commentColumns)

	rows, err := m.db.QueryContext(ctx, query, blogID, f.Limit(), f.Offset())
	if err != nil {
		return nil, common.Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(&totalRecords, &c.ID, &c.Content, &c.Edited, &c.BlogID, &c.Author.ID, &c.CreatedAt, &c.UpdatedAt, &c.Version, &c.Author.Email, &c.Author.FirstName, &c.Author.LastName)
		if err != nil {
			return nil, common.Metadata{}, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Metadata{}, err
	}

	return comments, common.CalculateMetadata(totalRecords, f.Page, f.PageSize), nil
}

func (m *CommentModel) getByUserID(ctx context.Context, userID int) ([]Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`, commentColumns)

	rows, err := m.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
