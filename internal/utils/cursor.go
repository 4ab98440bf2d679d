package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
)

func EncodeResourceCursor(createdAt int64, id string) (string, error) {
	b, err := json.Marshal(resource.Cursor{CreatedAt: createdAt, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeResourceCursor(cursor string) (resource.Cursor, error) {
	if cursor == "" {
		return resource.Cursor{}, errors.New("empty cursor")
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return resource.Cursor{}, err
	}

	var c resource.Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return resource.Cursor{}, err
	}
	if c.ID == "" || c.CreatedAt <= 0 {
		return resource.Cursor{}, errors.New("invalid cursor payload")
	}
	return c, nil
}
