package postgres

import (
	"context"
	"fmt"

	"github.com/Leopold1975/recipes_control/internal/pkg/pgtools"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/catalogrepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogPostgresRepo struct {
	db   *pgxpool.Pool
	kind catalogrepo.Kind
}

func New(db *pgxpool.Pool, kind catalogrepo.Kind) CatalogPostgresRepo {
	return CatalogPostgresRepo{
		db:   db,
		kind: kind,
	}
}

// List returns the owner's items ordered by name descending. With
// assignedOnly set it keeps only items referenced by at least one
// recipe; the EXISTS filter yields each item once no matter how many
// recipes reference it.
func (cr CatalogPostgresRepo) List(ctx context.Context, ownerID int64, assignedOnly bool) ([]models.Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sb := psql.Select("id", "name", "user_id").
		From(cr.kind.Table).
		Where(squirrel.Eq{"user_id": ownerID})

	if assignedOnly {
		sb = sb.Where(fmt.Sprintf("EXISTS (SELECT 1 FROM %s a WHERE a.%s = %s.id)",
			cr.kind.AssocTable, cr.kind.AssocColumn, cr.kind.Table))
	}

	query, args, err := sb.OrderBy("name DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := cr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	items := make([]models.Item, 0, 10) //nolint:gomnd

	for rows.Next() {
		var it models.Item

		if err := rows.Scan(&it.ID, &it.Name, &it.UserID); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		items = append(items, it)
	}

	return items, nil
}

func (cr CatalogPostgresRepo) Create(ctx context.Context, item models.Item) (_ models.Item, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.Item{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create item")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert(cr.kind.Table).
		Columns("name", "user_id").
		Values(item.Name, item.UserID).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Item{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&item.ID); err != nil {
		return models.Item{}, fmt.Errorf("scan error: %w", err)
	}

	return item, nil
}
