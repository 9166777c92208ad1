package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator()
	assert.True(t, v.Valid())

	v.Check(true, "ok", "should not be recorded")
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "second message is ignored")
	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "must be provided"}, v.Errors)

	err := v.ValidationError()
	var validationErr ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, v.Errors, validationErr.Errors)
}

func TestIn(t *testing.T) {
	assert.True(t, In("date", "date", "popularity", "title"))
	assert.False(t, In("views", "date", "popularity", "title"))
	assert.False(t, In("date"))
}

func TestCalculateMetadata(t *testing.T) {
	testCases := []struct {
		name         string
		totalRecords int
		page         int
		pageSize     int
		want         Metadata
	}{
		{
			name: "empty result",
			want: Metadata{},
		},
		{
			name:         "single page",
			totalRecords: 5,
			page:         0,
			pageSize:     10,
			want:         Metadata{CurrentPage: 0, PageSize: 10, FirstPage: 0, LastPage: 0, TotalRecords: 5},
		},
		{
			name:         "partial last page",
			totalRecords: 21,
			page:         1,
			pageSize:     10,
			want:         Metadata{CurrentPage: 1, PageSize: 10, FirstPage: 0, LastPage: 2, TotalRecords: 21},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateMetadata(tc.totalRecords, tc.page, tc.pageSize)
			assert.Equal(t, tc.want, got)
		})
	}
}
