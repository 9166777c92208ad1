package tagservice

import (
	"context"
	"database/sql"

	"github.com/inkwell-app/inkwell/internal/common"
)

func NewTagService(db *sql.DB) *TagService {
	return &TagService{m: newTagModel(db)}
}

// FindOrCreate resolves a raw tag name to its canonical row, creating the row
// on first use. Two inputs that normalize equal always resolve to the same tag.
func (s *TagService) FindOrCreate(ctx context.Context, raw string) (*Tag, error) {
	name := Normalize(raw)

	v := common.NewValidator()
	validateTagName(v, name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.findOrCreate(ctx, name)
}

// CreateTag explicitly creates a tag and fails with ErrDuplicateTag when the
// canonical name is already taken.
func (s *TagService) CreateTag(ctx context.Context, rawName, color string) (*Tag, error) {
	name := Normalize(rawName)

	v := common.NewValidator()
	validateTagName(v, name)
	validateColor(v, color)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.insert(ctx, name, color)
}

func (s *TagService) GetAllTags(ctx context.Context) ([]Tag, error) {
	return s.m.getAll(ctx)
}

// GetPopularTags returns all tags ordered by the number of blogs carrying
// them, most used first.
func (s *TagService) GetPopularTags(ctx context.Context) ([]Tag, error) {
	return s.m.popular(ctx)
}

// SearchTags matches the substring case-insensitively anywhere in the name.
func (s *TagService) SearchTags(ctx context.Context, name string) ([]Tag, error) {
	v := common.NewValidator()
	validateTagName(v, Normalize(name))
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.search(ctx, Normalize(name))
}
