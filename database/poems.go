package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
	loadSql "github.com/siherrmann/poetry/sql"
)

// PoemsDBHandlerFunctions defines the interface for Poems database operations.
type PoemsDBHandlerFunctions interface {
	ReplaceAllPoems(ctx context.Context, poems []*model.Poem) (int, error)
	SelectPoem(ctx context.Context, id uuid.UUID) (*model.Poem, error)
	SelectAllPoems(ctx context.Context) ([]*model.Poem, error)
	CountPoems(ctx context.Context) (int, error)
	SelectPoemsBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.Poem, error)
	ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error
}

// poemColumns is the column order of the bulk insert.
var poemColumns = []string{"id", "date", "title", "text", "topic1", "topic2", "topic3", "embedding"}

// PoemsDBHandler handles poem-related database operations
type PoemsDBHandler struct {
	db *helper.Database
}

// NewPoemsDBHandler creates a new poems database handler.
// It initializes the database connection and loads poem-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewPoemsDBHandler(db *helper.Database, embeddingDim int, force bool) (*PoemsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	poemsDbHandler := &PoemsDBHandler{
		db: db,
	}

	err := loadSql.LoadPoemsSql(poemsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load poems sql", err)
	}

	err = poemsDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized PoemsDBHandler")

	return poemsDbHandler, nil
}

// CreateTable creates the 'poems' table with an embedding column of embeddingDim dimensions.
// If the table already exists, it does not create it again.
func (h *PoemsDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_poems($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing poems table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table poems")

	return nil
}

// ReplaceAllPoems truncates the poems table and bulk inserts poems with COPY.
// Both happen in one transaction, on error the table keeps its previous rows.
func (h *PoemsDBHandler) ReplaceAllPoems(ctx context.Context, poems []*model.Poem) (int, error) {
	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return 0, helper.NewError("begin transaction", err)
	}
	defer func() {
		// No-op after a successful commit
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `SELECT truncate_poems();`)
	if err != nil {
		return 0, helper.NewError("truncate poems", err)
	}
	h.db.Logger.Info("Table truncated successfully")

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("poems", poemColumns...))
	if err != nil {
		return 0, helper.NewError("prepare copy", err)
	}

	for i, poem := range poems {
		if !poem.Identified() {
			_ = stmt.Close()
			return 0, helper.NewError("copy poem", fmt.Errorf("poem %d has no id", i))
		}

		_, err = stmt.ExecContext(ctx, copyValues(poem)...)
		if err != nil {
			_ = stmt.Close()
			return 0, helper.NewError("copy poem", err)
		}
	}

	// Flush the buffered rows
	_, err = stmt.ExecContext(ctx)
	if err != nil {
		_ = stmt.Close()
		return 0, helper.NewError("flush copy", err)
	}
	err = stmt.Close()
	if err != nil {
		return 0, helper.NewError("close copy", err)
	}

	err = tx.Commit()
	if err != nil {
		return 0, helper.NewError("commit", err)
	}

	h.db.Logger.Info("Data insertion complete", "rows", len(poems))

	return len(poems), nil
}

// SelectPoem retrieves a poem by id
func (h *PoemsDBHandler) SelectPoem(ctx context.Context, id uuid.UUID) (*model.Poem, error) {
	row := h.db.Instance.QueryRowContext(ctx,
		`SELECT * FROM select_poem($1)`,
		id,
	)

	poem, err := scanPoem(row)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return poem, nil
}

// SelectAllPoems retrieves all poems ordered by title
func (h *PoemsDBHandler) SelectAllPoems(ctx context.Context) ([]*model.Poem, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_poems()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	poems := []*model.Poem{}
	for rows.Next() {
		poem, err := scanPoem(rows)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		poems = append(poems, poem)
	}

	if err = rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return poems, nil
}

// CountPoems returns the number of stored poems
func (h *PoemsDBHandler) CountPoems(ctx context.Context) (int, error) {
	var count int
	err := h.db.Instance.QueryRowContext(ctx, `SELECT count_poems()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

// SelectPoemsBySimilarity retrieves the poems closest to embedding by cosine distance
func (h *PoemsDBHandler) SelectPoemsBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.Poem, error) {
	rows, err := h.db.Instance.QueryContext(ctx,
		`SELECT * FROM select_poems_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	poems := []*model.Poem{}
	for rows.Next() {
		var similarity float64
		poem, err := scanPoem(rows, &similarity)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		poems = append(poems, poem)
	}

	if err = rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return poems, nil
}

// copyValues returns the row of poem in poemColumns order.
// Empty optionals become NULL.
func copyValues(poem *model.Poem) []interface{} {
	values := []interface{}{poem.ID.String(), nil, poem.Title, poem.Text, nil, nil, nil, nil}
	if poem.Date != nil {
		values[1] = *poem.Date
	}
	for i, topic := range poem.Topics() {
		if topic != nil {
			values[4+i] = int64(*topic)
		}
	}
	if len(poem.Embedding) > 0 {
		values[7] = pgvector.NewVector(poem.Embedding).String()
	}
	return values
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanPoem scans the poem columns followed by extra columns.
func scanPoem(row scanner, extra ...interface{}) (*model.Poem, error) {
	poem := &model.Poem{}
	var date sql.NullTime
	var topic1, topic2, topic3 sql.NullInt64
	var embedding *pgvector.Vector

	dest := []interface{}{
		&poem.ID,
		&date,
		&poem.Title,
		&poem.Text,
		&topic1,
		&topic2,
		&topic3,
		&embedding,
	}
	err := row.Scan(append(dest, extra...)...)
	if err != nil {
		return nil, err
	}

	if date.Valid {
		poem.Date = &date.Time
	}
	poem.Topic1 = nullInt(topic1)
	poem.Topic2 = nullInt(topic2)
	poem.Topic3 = nullInt(topic3)
	if embedding != nil {
		poem.Embedding = embedding.Slice()
	}

	return poem, nil
}

func nullInt(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	i := int(value.Int64)
	return &i
}
