package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/poetry/helper"
)

// Vector index types of the poems embedding column.
const (
	IndexHNSW    = "hnsw"
	IndexIVFFlat = "ivfflat"
)

const (
	defaultHNSWM              = 16
	defaultHNSWEfConstruction = 64
	// poemsPerList is the number of poems per IVFFlat list when lists is not given.
	poemsPerList = 1000
)

// ChangeIndexType rebuilds idx_poems_embedding as an HNSW or IVFFlat index.
// params may hold "m" and "ef_construction" for HNSW or "lists" for IVFFlat.
// Without "lists" the IVFFlat index gets one list per poemsPerList stored poems.
func (h *PoemsDBHandler) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var createIndexSQL string
	switch indexType {
	case IndexHNSW:
		m := intParam(params, "m", defaultHNSWM)
		efConstruction := intParam(params, "ef_construction", defaultHNSWEfConstruction)
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_poems_embedding ON poems USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d);`,
			m, efConstruction,
		)

	case IndexIVFFlat:
		count, err := h.CountPoems(ctx)
		if err != nil {
			return helper.NewError("count poems", err)
		}
		lists := intParam(params, "lists", max(count/poemsPerList, 1))
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_poems_embedding ON poems USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d);`,
			lists,
		)

	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use '%s' or '%s')", indexType, IndexHNSW, IndexIVFFlat))
	}

	// Drop and create together so a failed build keeps the old index
	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `DROP INDEX IF EXISTS idx_poems_embedding;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	_, err = tx.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	err = tx.Commit()
	if err != nil {
		return helper.NewError("commit", err)
	}

	h.db.Logger.Info("Rebuilt poems embedding index", slog.String("type", indexType), slog.Any("params", params))

	return nil
}

func intParam(params map[string]interface{}, key string, fallback int) int {
	if value, ok := params[key].(int); ok && value > 0 {
		return value
	}
	return fallback
}
