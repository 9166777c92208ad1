package tagservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwell-app/inkwell/internal/common"
)

var (
	ErrDuplicateTag = errors.New("duplicate tag")
)

func newTagModel(db *sql.DB) *TagModel {
	return &TagModel{db: db}
}

func (m *TagModel) insert(ctx context.Context, name, color string) (*Tag, error) {
	query := `
		INSERT INTO tags (name, color)
		VALUES ($1, $2)
		RETURNING id, name, color, created_at`

	var tag Tag
	err := m.db.QueryRowContext(ctx, query, name, color).Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "tags_name_key"):
			return nil, ErrDuplicateTag
		default:
			return nil, err
		}
	}

	return &tag, nil
}

// findOrCreate inserts the canonical name if it is absent and returns the
// surviving row. ON CONFLICT DO NOTHING makes concurrent racers for the same
// name converge on a single row instead of failing on the unique index.
func (m *TagModel) findOrCreate(ctx context.Context, name string) (*Tag, error) {
	insert := `
		INSERT INTO tags (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING`

	_, err := m.db.ExecContext(ctx, insert, name)
	if err != nil {
		return nil, err
	}

	return m.getByName(ctx, name)
}

func (m *TagModel) getByName(ctx context.Context, name string) (*Tag, error) {
	query := `
		SELECT id, name, color, created_at
		FROM tags
		WHERE name = $1`

	var tag Tag
	err := m.db.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &tag, nil
}

func (m *TagModel) getAll(ctx context.Context) ([]Tag, error) {
	query := `
		SELECT t.id, t.name, t.color, t.created_at, COUNT(bt.blog_id)
		FROM tags t
		LEFT JOIN blog_tags bt ON t.id = bt.tag_id
		GROUP BY t.id
		ORDER BY t.name ASC`

	return m.queryTags(ctx, query)
}

// popular orders by blog count descending. Ties break on canonical name
// ascending so the order is deterministic.
func (m *TagModel) popular(ctx context.Context) ([]Tag, error) {
	query := `
		SELECT t.id, t.name, t.color, t.created_at, COUNT(bt.blog_id) AS usage_count
		FROM tags t
		LEFT JOIN blog_tags bt ON t.id = bt.tag_id
		GROUP BY t.id
		ORDER BY usage_count DESC, t.name ASC`

	return m.queryTags(ctx, query)
}

func (m *TagModel) search(ctx context.Context, name string) ([]Tag, error) {
	query := `
		SELECT t.id, t.name, t.color, t.created_at, COUNT(bt.blog_id)
		FROM tags t
		LEFT JOIN blog_tags bt ON t.id = bt.tag_id
		WHERE t.name ILIKE $1
		GROUP BY t.id
		ORDER BY t.name ASC`

	return m.queryTags(ctx, query, "%"+name+"%")
}

func (m *TagModel) queryTags(ctx context.Context, query string, args ...any) ([]Tag, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var tag Tag
		err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UsageCount)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}
