package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
)

// SeedResources inserts items only when the resources table is empty.
func SeedResources(ctx context.Context, pool *pgxpool.Pool, items []resource.Resource) (int, error) {
	var count int

	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM resources`).Scan(&count)

	if err != nil {
		return 0, err
	}

	if count > 0 {
		return 0, nil
	}

	for _, r := range items {
		_, err = pool.Exec(ctx,
			`INSERT INTO resources (id, title, description, type, author, date, tags, link, likes, content, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (id) DO NOTHING`,
			r.ID, r.Title, r.Description, string(r.Type), r.Author, r.Date, resource.EncodeTags(r.Tags), r.Link, r.Likes, r.Content, r.CreatedAt,
		)

		if err != nil {
			return 0, err
		}
	}

	return len(items), nil
}
