package resource

import (
	"encoding/json"
	"errors"
)

type Type string

const (
	TypeArticle  Type = "article"
	TypeResource Type = "resource"
	TypeTool     Type = "tool"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeArticle, TypeResource, TypeTool:
		return true
	default:
		return false
	}
}

const (
	DefaultTitle  = "未命名文章"
	DefaultAuthor = "管理员"
	DefaultLink   = "#"
	DateLayout    = "2006-01-02"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource id already exists")
)

// Resource is a catalog entry: an article, a teaching resource or a tool.
type Resource struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        Type     `json:"type"`
	Author      string   `json:"author"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Link        string   `json:"link"`
	Likes       int      `json:"likes"`
	Content     string   `json:"content,omitempty"`
	CreatedAt   int64    `json:"created_at"` // unix seconds
}

// CreateRequest accepts any subset of the resource fields; blanks get defaults.
type CreateRequest struct {
	ID          string   `json:"id" binding:"omitempty,max=64"`
	Title       string   `json:"title" binding:"omitempty,max=200"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	Type        Type     `json:"type" binding:"omitempty,oneof=article resource tool"`
	Author      string   `json:"author" binding:"omitempty,max=100"`
	Date        string   `json:"date" binding:"omitempty,max=32"`
	Tags        []string `json:"tags" binding:"omitempty,max=20,dive,max=40"`
	Link        string   `json:"link" binding:"omitempty,max=2048"`
	Likes       int      `json:"likes"`
	Content     string   `json:"content"`
}

// UpdateRequest is a full overwrite of every mutable column of the row with ID.
type UpdateRequest struct {
	ID          string   `json:"id" binding:"required,max=64"`
	Title       string   `json:"title" binding:"omitempty,max=200"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	Type        Type     `json:"type" binding:"omitempty,oneof=article resource tool"`
	Author      string   `json:"author" binding:"omitempty,max=100"`
	Date        string   `json:"date" binding:"omitempty,max=32"`
	Tags        []string `json:"tags" binding:"omitempty,max=20,dive,max=40"`
	Link        string   `json:"link" binding:"omitempty,max=2048"`
	Likes       int      `json:"likes"`
	Content     string   `json:"content"`
}

// Cursor marks the last row of a page in (created_at DESC, id DESC) order.
type Cursor struct {
	CreatedAt int64  `json:"createdAt"`
	ID        string `json:"id"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	Type  *Type
	Limit int // 0 means no limit
	After *Cursor
}

// EncodeTags serializes tags for the text column.
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeTags never returns nil; unparseable text yields an empty list.
func DecodeTags(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
