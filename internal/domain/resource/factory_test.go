package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromCreateRequest_EmptyRequestGetsDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	r := NewFromCreateRequest(CreateRequest{}, now)

	require.NotEmpty(t, r.ID)
	assert.Equal(t, DefaultTitle, r.Title)
	assert.Equal(t, TypeArticle, r.Type)
	assert.Equal(t, DefaultAuthor, r.Author)
	assert.Equal(t, "2026-03-01", r.Date)
	assert.Equal(t, []string{}, r.Tags)
	assert.Equal(t, DefaultLink, r.Link)
	assert.Equal(t, 0, r.Likes)
	assert.Equal(t, now.Unix(), r.CreatedAt)
}

func TestNewFromCreateRequest_KeepsProvidedFields(t *testing.T) {
	now := time.Now()

	r := NewFromCreateRequest(CreateRequest{
		ID:     "custom-id",
		Title:  "《背影》教学设计",
		Type:   TypeTool,
		Author: "王老师",
		Date:   "2025-09-01",
		Tags:   []string{"初中", " ", "散文 "},
		Link:   "https://example.com",
		Likes:  -3,
	}, now)

	assert.Equal(t, "custom-id", r.ID)
	assert.Equal(t, "《背影》教学设计", r.Title)
	assert.Equal(t, TypeTool, r.Type)
	assert.Equal(t, "王老师", r.Author)
	assert.Equal(t, "2025-09-01", r.Date)
	assert.Equal(t, []string{"初中", "散文"}, r.Tags)
	assert.Equal(t, 0, r.Likes, "negative likes are clamped")
}

func TestApplyUpdate_OverwritesButKeepsIdentity(t *testing.T) {
	existing := Resource{ID: "r1", Title: "old", Date: "2025-01-01", Tags: []string{"a"}, Likes: 9, CreatedAt: 100}

	got := ApplyUpdate(existing, UpdateRequest{ID: "ignored", Title: "new", Likes: 3})

	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, int64(100), got.CreatedAt)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "2025-01-01", got.Date, "blank date keeps the stored one")
	assert.Equal(t, []string{}, got.Tags)
	assert.Equal(t, 3, got.Likes)
	assert.Equal(t, TypeArticle, got.Type)
}

func TestTagsCodec(t *testing.T) {
	assert.Equal(t, `[]`, EncodeTags(nil))
	assert.Equal(t, `["古诗","阅读"]`, EncodeTags([]string{"古诗", "阅读"}))

	assert.Equal(t, []string{"古诗", "阅读"}, DecodeTags(`["古诗","阅读"]`))
	assert.Equal(t, []string{}, DecodeTags(""))
	assert.Equal(t, []string{}, DecodeTags("null"))
	assert.Equal(t, []string{}, DecodeTags("not json"))
}

func TestTypeIsValid(t *testing.T) {
	assert.True(t, TypeArticle.IsValid())
	assert.True(t, TypeResource.IsValid())
	assert.True(t, TypeTool.IsValid())
	assert.False(t, Type("video").IsValid())
}
