package resource

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateRequest, now time.Time) Resource {
	r := Resource{
		ID:          orDefault(req.ID, uuid.NewString()),
		Title:       orDefault(req.Title, DefaultTitle),
		Description: req.Description,
		Type:        Type(orDefault(string(req.Type), string(TypeArticle))),
		Author:      orDefault(req.Author, DefaultAuthor),
		Date:        orDefault(req.Date, now.UTC().Format(DateLayout)),
		Tags:        cleanTags(req.Tags),
		Link:        orDefault(req.Link, DefaultLink),
		Likes:       nonNegative(req.Likes),
		Content:     req.Content,
		CreatedAt:   now.Unix(),
	}
	return r
}

// NormalizeUpdate substitutes the same defaults as creation. Date is left
// blank when absent so stores keep the existing value.
func NormalizeUpdate(req UpdateRequest) UpdateRequest {
	req.Title = orDefault(req.Title, DefaultTitle)
	req.Type = Type(orDefault(string(req.Type), string(TypeArticle)))
	req.Author = orDefault(req.Author, DefaultAuthor)
	req.Date = strings.TrimSpace(req.Date)
	req.Tags = cleanTags(req.Tags)
	req.Link = orDefault(req.Link, DefaultLink)
	req.Likes = nonNegative(req.Likes)
	return req
}

// ApplyUpdate overwrites every mutable field of existing, keeping ID and CreatedAt.
func ApplyUpdate(existing Resource, req UpdateRequest) Resource {
	req = NormalizeUpdate(req)

	existing.Title = req.Title
	existing.Description = req.Description
	existing.Type = req.Type
	existing.Author = req.Author
	existing.Date = orDefault(req.Date, existing.Date)
	existing.Tags = req.Tags
	existing.Link = req.Link
	existing.Likes = req.Likes
	existing.Content = req.Content
	return existing
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
