package tagservice

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/common"
)

func setupTestService(t *testing.T) (*TagService, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	return NewTagService(db), db
}

func TestFindOrCreate(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()

	first, err := s.FindOrCreate(ctx, "Java")
	require.NoError(t, err)

	// Differently cased and padded spellings resolve to the same row.
	for _, raw := range []string{" java ", "JAVA", "java"} {
		tag, err := s.FindOrCreate(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, first.ID, tag.ID)
		assert.Equal(t, "java", tag.Name)
	}

	_, err = s.FindOrCreate(ctx, "   ")
	var validationErr common.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestFindOrCreateConcurrent(t *testing.T) {
	s, db := setupTestService(t)
	ctx := context.Background()

	const callers = 50

	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.FindOrCreate(ctx, "concurrency")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM tags WHERE name = 'concurrency'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateTag(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()

	tag, err := s.CreateTag(ctx, " Go ", "#00add8")
	require.NoError(t, err)
	assert.Equal(t, "go", tag.Name)
	assert.Equal(t, "#00add8", tag.Color)

	_, err = s.CreateTag(ctx, "GO", "")
	assert.ErrorIs(t, err, ErrDuplicateTag)
}

func TestPopularTags(t *testing.T) {
	s, db := setupTestService(t)
	ctx := context.Background()

	var userID int
	err := db.QueryRow(`INSERT INTO users (email, password_hash, first_name, last_name) VALUES ('author@example.com', 'x', 'Test', 'Author') RETURNING id`).Scan(&userID)
	require.NoError(t, err)

	tagIDs := map[string]int{}
	for _, name := range []string{"alpha", "beta", "gamma"} {
		tag, err := s.FindOrCreate(ctx, name)
		require.NoError(t, err)
		tagIDs[name] = tag.ID
	}

	// beta on two blogs, alpha and gamma on one each.
	usage := map[string]int{"beta": 2, "alpha": 1, "gamma": 1}
	for name, blogs := range usage {
		for i := 0; i < blogs; i++ {
			var blogID int
			err := db.QueryRow(`INSERT INTO blogs (title, content, user_id) VALUES ('t', 'c', $1) RETURNING id`, userID).Scan(&blogID)
			require.NoError(t, err)
			_, err = db.Exec(`INSERT INTO blog_tags (blog_id, tag_id) VALUES ($1, $2)`, blogID, tagIDs[name])
			require.NoError(t, err)
		}
	}

	tags, err := s.GetPopularTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	assert.Equal(t, "beta", tags[0].Name)
	assert.Equal(t, 2, tags[0].UsageCount)
	// equal counts fall back to name order
	assert.Equal(t, "alpha", tags[1].Name)
	assert.Equal(t, "gamma", tags[2].Name)
}

func TestSearchTags(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()

	for _, name := range []string{"golang", "django", "rust"} {
		_, err := s.FindOrCreate(ctx, name)
		require.NoError(t, err)
	}

	tags, err := s.SearchTags(ctx, "GO")
	require.NoError(t, err)

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"golang", "django"}, names)
}
