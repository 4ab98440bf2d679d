package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
	"github.com/yuwenzhijiao/showcase/internal/observability"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var resourceColumns = []string{
	"id", "title", "description", "type", "author", "date", "tags", "link", "likes", "content", "created_at",
}

type ResourcesRepo struct {
	observer
	pool *pgxpool.Pool
}

func NewResourcesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ResourcesRepo {
	return &ResourcesRepo{observer: observer{prom: prom}, pool: pool}
}

func (r *ResourcesRepo) Create(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	query, args, err := psql.Insert("resources").
		Columns(resourceColumns...).
		Values(res.ID, res.Title, res.Description, string(res.Type), res.Author, res.Date,
			resource.EncodeTags(res.Tags), res.Link, res.Likes, res.Content, res.CreatedAt).
		ToSql()
	if err != nil {
		return resource.Resource{}, err
	}

	err = r.observe("resources.create", func() error {
		_, err := r.pool.Exec(ctx, query, args...)
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return resource.Resource{}, resource.ErrConflict
		}
		return resource.Resource{}, err
	}

	return res, nil
}

// List returns resources newest first, honoring the optional type filter,
// keyset cursor and limit.
func (r *ResourcesRepo) List(ctx context.Context, filter resource.ListFilter) ([]resource.Resource, error) {
	q := psql.Select(resourceColumns...).From("resources")

	if filter.Type != nil {
		q = q.Where(sq.Eq{"type": string(*filter.Type)})
	}

	if filter.After != nil {
		q = q.Where(sq.Expr("(created_at, id) < (?, ?)", filter.After.CreatedAt, filter.After.ID))
	}

	// stable ordering for pagination
	q = q.OrderBy("created_at DESC", "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	out := make([]resource.Resource, 0)

	err = r.observe("resources.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			res, err := scanResource(rows)
			if err != nil {
				return err
			}
			out = append(out, res)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites every mutable column; a blank date keeps the stored one.
func (r *ResourcesRepo) Update(ctx context.Context, req resource.UpdateRequest) (resource.Resource, error) {
	req = resource.NormalizeUpdate(req)

	var res resource.Resource

	err := r.observe("resources.update", func() error {
		var err error
		res, err = scanResource(r.pool.QueryRow(ctx,
			`UPDATE resources
			SET title = $2,
				description = $3,
				type = $4,
				author = $5,
				date = COALESCE(NULLIF($6, ''), date),
				tags = $7,
				link = $8,
				likes = $9,
				content = $10
			WHERE id = $1
			RETURNING id, title, description, type, author, date, tags, link, likes, content, created_at`,
			req.ID,
			req.Title,
			req.Description,
			string(req.Type),
			req.Author,
			req.Date,
			resource.EncodeTags(req.Tags),
			req.Link,
			req.Likes,
			req.Content,
		))
		return err
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return resource.Resource{}, resource.ErrNotFound
		}
		return resource.Resource{}, err
	}

	return res, nil
}

func (r *ResourcesRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("resources.delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}

	return nil
}

func scanResource(row pgx.Row) (resource.Resource, error) {
	var (
		res  resource.Resource
		typ  string
		tags string
	)

	err := row.Scan(&res.ID, &res.Title, &res.Description, &typ, &res.Author, &res.Date, &tags, &res.Link, &res.Likes, &res.Content, &res.CreatedAt)
	if err != nil {
		return resource.Resource{}, err
	}

	res.Type = resource.Type(typ)
	res.Tags = resource.DecodeTags(tags)
	return res, nil
}
