package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/recipes_control/internal/pkg/pgtools"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	repo "github.com/Leopold1975/recipes_control/internal/recipes/repository/reciperepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foreignKeyViolation = "23503"

type RecipesPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) RecipesPostgresRepo {
	return RecipesPostgresRepo{
		db: db,
	}
}

// Create inserts the recipe and its association rows in one
// transaction; a failing association insert rolls the whole recipe back.
func (rr RecipesPostgresRepo) Create(ctx context.Context, r models.Recipe,
	tagIDs, ingredientIDs []int64,
) (_ int64, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create recipe")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("recipes").
		Columns("title", "prep_time_mins", "cook_time_mins", "price", "link", "image", "user_id").
		Values(r.Title, r.PrepTimeMins, r.CookTimeMins, string(r.Price), r.Link, r.Image, r.UserID).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	var id int64

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	if err = insertAssociations(ctx, tx, "recipe_tags", "tag_id", id, tagIDs); err != nil {
		return 0, err
	}

	if err = insertAssociations(ctx, tx, "recipe_ingredients", "ingredient_id", id, ingredientIDs); err != nil {
		return 0, err
	}

	return id, nil
}

func insertAssociations(ctx context.Context, tx pgx.Tx, table, column string, recipeID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	ib := psql.Insert(table).Columns("recipe_id", column)
	for _, id := range ids {
		ib = ib.Values(recipeID, id)
	}

	query, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) && target.Code == foreignKeyViolation {
			return repo.ErrBadReference
		}

		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (rr RecipesPostgresRepo) List(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "title", "prep_time_mins", "cook_time_mins",
		"price::text", "link", "image", "user_id").
		From("recipes").
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := rr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0, 10) //nolint:gomnd

	for rows.Next() {
		var (
			r     models.Recipe
			price string
		)

		if err := rows.Scan(&r.ID, &r.Title, &r.PrepTimeMins, &r.CookTimeMins,
			&price, &r.Link, &r.Image, &r.UserID); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		r.Price = models.Decimal(price)
		r.Tags = make([]int64, 0)
		r.Ingredients = make([]int64, 0)

		recipes = append(recipes, r)
	}

	for i := range recipes {
		if recipes[i].Tags, err = rr.associationIDs(ctx, "recipe_tags", "tag_id", recipes[i].ID); err != nil {
			return nil, err
		}

		if recipes[i].Ingredients, err = rr.associationIDs(ctx,
			"recipe_ingredients", "ingredient_id", recipes[i].ID); err != nil {
			return nil, err
		}
	}

	return recipes, nil
}

func (rr RecipesPostgresRepo) associationIDs(ctx context.Context, table, column string, recipeID int64) ([]int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(column).
		From(table).
		Where(squirrel.Eq{"recipe_id": recipeID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := rr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)

	for rows.Next() {
		var id int64

		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// Get returns the expanded representation. Ownership is part of the
// WHERE clause, so another user's recipe looks exactly like a missing one.
func (rr RecipesPostgresRepo) Get(ctx context.Context, ownerID, id int64) (models.RecipeDetail, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "title", "prep_time_mins", "cook_time_mins",
		"price::text", "link", "image", "user_id").
		From("recipes").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).ToSql()
	if err != nil {
		return models.RecipeDetail{}, fmt.Errorf("to sql error: %w", err)
	}

	var (
		rd    models.RecipeDetail
		price string
	)

	if err := rr.db.QueryRow(ctx, query, args...).Scan(&rd.ID, &rd.Title, &rd.PrepTimeMins,
		&rd.CookTimeMins, &price, &rd.Link, &rd.Image, &rd.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rd, repo.ErrNotFound
		}

		return rd, fmt.Errorf("scan error: %w", err)
	}

	rd.Price = models.Decimal(price)

	if rd.Tags, err = rr.associationItems(ctx, "tags", "recipe_tags", "tag_id", id); err != nil {
		return models.RecipeDetail{}, err
	}

	if rd.Ingredients, err = rr.associationItems(ctx,
		"ingredients", "recipe_ingredients", "ingredient_id", id); err != nil {
		return models.RecipeDetail{}, err
	}

	return rd, nil
}

func (rr RecipesPostgresRepo) associationItems(ctx context.Context,
	table, assocTable, column string, recipeID int64,
) ([]models.Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("i.id", "i.name", "i.user_id").
		From(table + " i").
		Join(fmt.Sprintf("%s a ON a.%s = i.id", assocTable, column)).
		Where(squirrel.Eq{"a.recipe_id": recipeID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := rr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)

	for rows.Next() {
		var it models.Item

		if err := rows.Scan(&it.ID, &it.Name, &it.UserID); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		items = append(items, it)
	}

	return items, nil
}

func (rr RecipesPostgresRepo) Update(ctx context.Context, req repo.UpdateRequest) (err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update recipe")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	ub := psql.Update("recipes")
	hasSet := false

	if req.Title != nil {
		ub = ub.Set("title", *req.Title)
		hasSet = true
	}

	if req.PrepTimeMins != nil {
		ub = ub.Set("prep_time_mins", *req.PrepTimeMins)
		hasSet = true
	}

	if req.CookTimeMins != nil {
		ub = ub.Set("cook_time_mins", *req.CookTimeMins)
		hasSet = true
	}

	if req.Price != nil {
		ub = ub.Set("price", *req.Price)
		hasSet = true
	}

	if req.Link != nil {
		ub = ub.Set("link", *req.Link)
		hasSet = true
	}

	if hasSet {
		query, args, errS := ub.Where(squirrel.Eq{"id": req.ID, "user_id": req.OwnerID}).ToSql()
		if errS != nil {
			err = fmt.Errorf("to sql error: %w", errS)

			return err
		}

		ct, errE := tx.Exec(ctx, query, args...)
		if errE != nil {
			err = fmt.Errorf("exec error: %w", errE)

			return err
		}

		if ct.RowsAffected() == 0 {
			err = repo.ErrNotFound

			return err
		}
	} else {
		// relations-only update still has to prove ownership
		query, args, errS := psql.Select("id").
			From("recipes").
			Where(squirrel.Eq{"id": req.ID, "user_id": req.OwnerID}).ToSql()
		if errS != nil {
			err = fmt.Errorf("to sql error: %w", errS)

			return err
		}

		var id int64

		if errQ := tx.QueryRow(ctx, query, args...).Scan(&id); errQ != nil {
			if errors.Is(errQ, pgx.ErrNoRows) {
				err = repo.ErrNotFound

				return err
			}

			err = fmt.Errorf("scan error: %w", errQ)

			return err
		}
	}

	if err = rr.replaceAssociations(ctx, tx, "recipe_tags", "tag_id", req.ID, req.Tags, req.Replace); err != nil {
		return err
	}

	if err = rr.replaceAssociations(ctx, tx,
		"recipe_ingredients", "ingredient_id", req.ID, req.Ingredients, req.Replace); err != nil {
		return err
	}

	return nil
}

// replaceAssociations rewrites a relation set. On partial updates a nil
// list means "leave as is"; on a full replace the set is always
// rewritten, so nil clears it.
func (rr RecipesPostgresRepo) replaceAssociations(ctx context.Context, tx pgx.Tx,
	table, column string, recipeID int64, ids *[]int64, replace bool,
) error {
	if ids == nil && !replace {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete(table).
		Where(squirrel.Eq{"recipe_id": recipeID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ids == nil {
		return nil
	}

	return insertAssociations(ctx, tx, table, column, recipeID, *ids)
}

func (rr RecipesPostgresRepo) Delete(ctx context.Context, ownerID, id int64) (err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete recipe")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("recipes").
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = repo.ErrNotFound

		return err
	}

	return nil
}

func (rr RecipesPostgresRepo) SetImage(ctx context.Context, ownerID, id int64, ref string) (err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "set image")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("recipes").
		Set("image", ref).
		Where(squirrel.Eq{"id": id, "user_id": ownerID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = repo.ErrNotFound

		return err
	}

	return nil
}

func (rr RecipesPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		rr.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}
