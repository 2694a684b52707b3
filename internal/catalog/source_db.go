package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

// Querier is satisfied by *pgxpool.Pool and by pgxmock pools.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect opens a pool and checks it answers.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	err = withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// LoadPostgres reads the items and category_items tables.
// Item order is the position column; category order is its own position column.
func LoadPostgres(ctx context.Context, q Querier) (Dataset, error) {
	ds := Dataset{Categories: map[string][]int{}}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		items, err := queryItems(ctx, q)
		if err != nil {
			return fmt.Errorf("query items: %w", err)
		}
		ds.Items = items

		if err := queryCategories(ctx, q, ds.Categories); err != nil {
			return fmt.Errorf("query categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func queryItems(ctx context.Context, q Querier) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT id, title, description, genre, cast_members, director, year,
		       rating, duration, imdb_rating, quality, poster, backdrop, video_url
		FROM items
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0, 64)
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.Title, &it.Description, &it.Genre, &it.Cast, &it.Director, &it.Year,
			&it.Rating, &it.Duration, &it.IMDBRating, &it.Quality, &it.Poster, &it.Backdrop, &it.VideoURL,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func queryCategories(ctx context.Context, q Querier, into map[string][]int) error {
	rows, err := q.Query(ctx, `
		SELECT category, item_id
		FROM category_items
		ORDER BY category ASC, position ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			id   int
		)
		if err := rows.Scan(&name, &id); err != nil {
			return err
		}
		into[name] = append(into[name], id)
	}
	return rows.Err()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
