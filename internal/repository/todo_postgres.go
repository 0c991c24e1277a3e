package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jaekwang-park/todo-list/internal/model"
)

const todoColumns = `id, input, done, sort_order, created_at, updated_at`

type PostgresTodoRepository struct {
	db *sql.DB
}

func NewPostgresTodo(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

func (r *PostgresTodoRepository) List(ctx context.Context) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		ORDER BY sort_order ASC NULLS LAST, created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	var missing []bool
	for rows.Next() {
		todo, hasOrder, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
		missing = append(missing, !hasOrder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	fillMissingOrder(todos, missing)
	return todos, nil
}

func (r *PostgresTodoRepository) GetByID(ctx context.Context, todoID string) (model.Todo, error) {
	if !isUUID(todoID) {
		return model.Todo{}, sql.ErrNoRows
	}

	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1`

	todo, _, err := scanTodo(r.db.QueryRowContext(ctx, query, todoID))
	return todo, err
}

// MaxOrder returns the largest order a List call would report, taking rows
// without a stored order into account.
func (r *PostgresTodoRepository) MaxOrder(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(sort_order), 0), COUNT(*), COUNT(*) - COUNT(sort_order) FROM todos`

	var maxOrder, total, unordered int
	if err := r.db.QueryRowContext(ctx, query).Scan(&maxOrder, &total, &unordered); err != nil {
		return 0, fmt.Errorf("failed to get max order: %w", err)
	}

	return listedMaxOrder(maxOrder, total, unordered), nil
}

// listedMaxOrder is the order fillMissingOrder gives the last row when the
// unordered rows sort after every ordered one.
func listedMaxOrder(maxOrder, total, unordered int) int {
	if unordered > 0 {
		return max(maxOrder+unordered, total)
	}
	return maxOrder
}

func (r *PostgresTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		INSERT INTO todos (input, done, sort_order)
		VALUES ($1, $2, $3)
		RETURNING ` + todoColumns

	created, _, err := scanTodo(r.db.QueryRowContext(ctx, query, todo.Input, todo.Done, todo.Order))
	return created, err
}

// UpdateInput writes only the text column.
func (r *PostgresTodoRepository) UpdateInput(ctx context.Context, todoID, input string) (model.Todo, error) {
	return r.updateColumn(ctx, "input", todoID, input)
}

// UpdateDone writes only the done column.
func (r *PostgresTodoRepository) UpdateDone(ctx context.Context, todoID string, done bool) (model.Todo, error) {
	return r.updateColumn(ctx, "done", todoID, done)
}

// updateColumn sets a single column; column is always a constant from this file.
func (r *PostgresTodoRepository) updateColumn(ctx context.Context, column, todoID string, value any) (model.Todo, error) {
	if !isUUID(todoID) {
		return model.Todo{}, sql.ErrNoRows
	}

	query := `
		UPDATE todos
		SET ` + column + ` = $1, updated_at = now()
		WHERE id = $2
		RETURNING ` + todoColumns

	updated, _, err := scanTodo(r.db.QueryRowContext(ctx, query, value, todoID))
	return updated, err
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, todoID string) error {
	if !isUUID(todoID) {
		return sql.ErrNoRows
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, todoID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteMany removes every listed todo in a single statement and reports how
// many rows went away. Unknown ids are ignored.
func (r *PostgresTodoRepository) DeleteMany(ctx context.Context, todoIDs []string) (int64, error) {
	ids := validIDs(todoIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// UpdateOrder writes one position per pair inside a transaction. A pair that
// names a missing todo rolls the whole batch back with sql.ErrNoRows.
func (r *PostgresTodoRepository) UpdateOrder(ctx context.Context, pairs []model.OrderPair) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE todos SET sort_order = $1, updated_at = now() WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("failed to prepare reorder: %w", err)
	}
	defer stmt.Close()

	for _, p := range pairs {
		if !isUUID(p.ID) {
			return fmt.Errorf("todo %s: %w", p.ID, sql.ErrNoRows)
		}
		result, err := stmt.ExecContext(ctx, p.Order, p.ID)
		if err != nil {
			return fmt.Errorf("failed to update order of todo %s: %w", p.ID, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("todo %s: %w", p.ID, sql.ErrNoRows)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTodo(row scannable) (model.Todo, bool, error) {
	var t model.Todo
	var order sql.NullInt64
	err := row.Scan(&t.ID, &t.Input, &t.Done, &order, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Todo{}, false, fmt.Errorf("failed to scan todo: %w", err)
	}
	if order.Valid {
		t.Order = int(order.Int64)
	}
	return t, order.Valid, nil
}

// fillMissingOrder gives rows stored before the order column existed a
// position derived from their index, keeping the list ascending.
func fillMissingOrder(todos []model.Todo, missing []bool) {
	prev := 0
	for i := range todos {
		if missing[i] {
			todos[i].Order = max(i+1, prev+1)
		}
		prev = todos[i].Order
	}
}

// validIDs drops ids that cannot name a row, so the uuid[] cast never fails.
func validIDs(todoIDs []string) []string {
	ids := make([]string, 0, len(todoIDs))
	for _, id := range todoIDs {
		if isUUID(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ensure compile-time interface compliance
var _ TodoRepository = (*PostgresTodoRepository)(nil)
