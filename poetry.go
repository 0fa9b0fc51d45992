package poetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/poetry/core/corpus"
	"github.com/siherrmann/poetry/core/pipeline"
	"github.com/siherrmann/poetry/database"
	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
	"github.com/siherrmann/poetry/source"
	loadSql "github.com/siherrmann/poetry/sql"
)

// LoggedTopicWords is the number of words per topic written to the debug log.
const LoggedTopicWords = 30

// Poetry runs the stages of the poem corpus pipeline
type Poetry struct {
	Config   model.PipelineConfig
	DB       *helper.Database
	Poems    *database.PoemsDBHandler
	Pipeline *pipeline.Pipeline // Topic modeler and embedder, see UseDefaultPipeline
	Metrics  *helper.Metrics    // Optional
	// Logging
	log *slog.Logger
}

// NewPoetry creates a new Poetry instance for the given pipeline configuration.
// The database is connected separately with Connect, only the upload needs it.
func NewPoetry(config model.PipelineConfig, logger *slog.Logger, metrics *helper.Metrics) (*Poetry, error) {
	err := config.Validate()
	if err != nil {
		return nil, helper.NewError("validate config", err)
	}

	if logger == nil {
		logger = helper.NewLogger(slog.LevelInfo)
	}

	return &Poetry{
		Config:  config,
		Metrics: metrics,
		log:     logger,
	}, nil
}

// Connect opens the database and creates the poems table if needed
func (p *Poetry) Connect(config *helper.DatabaseConfiguration) error {
	db, err := helper.NewDatabase("poetry", config, p.log)
	if err != nil {
		return helper.NewError("connect database", err)
	}

	err = loadSql.Init(db.Instance)
	if err != nil {
		db.Close()
		return helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	poems, err := database.NewPoemsDBHandler(db, p.Config.Embedding.Dimension, false)
	if err != nil {
		db.Close()
		return helper.NewError("create poems handler", err)
	}

	p.DB = db
	p.Poems = poems
	return nil
}

// Close closes the database connection
func (p *Poetry) Close() error {
	if p.DB != nil && p.DB.Instance != nil {
		return p.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the topic and embedding pipeline
func (p *Poetry) SetPipeline(pipeline *pipeline.Pipeline) {
	p.Pipeline = pipeline
}

// UseDefaultPipeline sets up LDA topic modeling and the sentence transformer embedder
// of the configuration. The embedding model is downloaded on first use.
func (p *Poetry) UseDefaultPipeline() error {
	embedder, err := pipeline.NewEmbedder(p.Config.Embedding, p.Config.ModelsDir)
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	p.Pipeline = pipeline.NewPipeline(pipeline.LDATopicModeler(p.Config.Topics), embedder)
	p.Pipeline.SetBatchSize(p.Config.Embedding.BatchSize)
	return nil
}

// Convert converts the word documents below dir into text files
func (p *Poetry) Convert(dir string) (source.ConvertResult, error) {
	defer p.Metrics.ObserveStage("convert", time.Now())

	result, err := source.ConvertDocsToText(dir, p.log, p.Metrics)
	if err != nil {
		return result, helper.NewError("convert documents", err)
	}

	p.log.Info("Converted documents", slog.Int("converted", result.Converted), slog.Int("failed", result.Failed))
	return result, nil
}

// Collect reads the documents at location, a folder or an s3://bucket/prefix url
func (p *Poetry) Collect(ctx context.Context, location string) ([]model.RawDocument, error) {
	defer p.Metrics.ObserveStage("collect", time.Now())

	src, err := source.New(ctx, location, p.Config.Extensions, p.log, p.Metrics)
	if err != nil {
		return nil, helper.NewError("open source", err)
	}

	docs, err := src.Documents(ctx)
	if err != nil {
		return nil, helper.NewError("read documents", err)
	}

	p.log.Info("Collected documents", slog.String("location", location), slog.Int("documents", len(docs)))
	return docs, nil
}

// BuildCorpus turns the documents into the deduplicated, identified poem corpus
func (p *Poetry) BuildCorpus(docs []model.RawDocument) []*model.Poem {
	defer p.Metrics.ObserveStage("build", time.Now())

	return corpus.NewBuilder(p.Config, p.log, p.Metrics).Build(docs)
}

// Clean collects the documents at location and builds the corpus
func (p *Poetry) Clean(ctx context.Context, location string) ([]*model.Poem, error) {
	docs, err := p.Collect(ctx, location)
	if err != nil {
		return nil, err
	}
	return p.BuildCorpus(docs), nil
}

// AssignTopics fits the topic model and sets the topic slots of the poems.
// Returns the topics with their words.
func (p *Poetry) AssignTopics(poems []*model.Poem) ([]model.Topic, error) {
	if p.Pipeline == nil || p.Pipeline.TopicModeler == nil {
		return nil, helper.NewError("assign topics", fmt.Errorf("pipeline with topic modeler not set, use SetPipeline() first"))
	}
	if len(poems) == 0 {
		return nil, helper.NewError("assign topics", helper.ErrEmptyTable)
	}
	defer p.Metrics.ObserveStage("topics", time.Now())

	topics, err := p.Pipeline.AssignTopics(poems)
	if err != nil {
		return nil, helper.NewError("assign topics", err)
	}

	for _, topic := range topics {
		words := make([]string, 0, LoggedTopicWords)
		for i := 0; i < len(topic.Words) && i < LoggedTopicWords; i++ {
			words = append(words, topic.Words[i].Word)
		}
		p.log.Debug("Topic", slog.Int("number", topic.Number), slog.Any("words", words))
	}
	p.log.Info("Assigned topics", slog.Int("topics", len(topics)), slog.Int("poems", len(poems)))

	return topics, nil
}

// GenerateEmbeddings sets the embedding of every poem
func (p *Poetry) GenerateEmbeddings(poems []*model.Poem) error {
	if p.Pipeline == nil || p.Pipeline.Embedder == nil {
		return helper.NewError("generate embeddings", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}
	if len(poems) == 0 {
		return helper.NewError("generate embeddings", helper.ErrEmptyTable)
	}
	defer p.Metrics.ObserveStage("embed", time.Now())

	err := p.Pipeline.Embed(poems)
	if err != nil {
		return helper.NewError("generate embeddings", err)
	}

	p.log.Info("Generated embeddings", slog.Int("poems", len(poems)))
	return nil
}

// Upload replaces the content of the poems table with poems.
// Returns the number of rows written.
func (p *Poetry) Upload(ctx context.Context, poems []*model.Poem) (int, error) {
	if p.Poems == nil {
		return 0, helper.NewError("upload", fmt.Errorf("database not connected, use Connect() first"))
	}
	defer p.Metrics.ObserveStage("upload", time.Now())

	for i, poem := range poems {
		if len(poem.Embedding) > 0 && len(poem.Embedding) != p.Config.Embedding.Dimension {
			return 0, helper.NewError("upload", fmt.Errorf("poem %d has embedding dimension %d, expected %d", i, len(poem.Embedding), p.Config.Embedding.Dimension))
		}
	}

	rows, err := p.Poems.ReplaceAllPoems(ctx, poems)
	if err != nil {
		return 0, helper.NewError("upload", err)
	}
	p.Metrics.RowsUploaded(rows)

	return rows, nil
}

// Run executes all stages on the documents at location and uploads the result.
// The database has to be connected and the pipeline set.
func (p *Poetry) Run(ctx context.Context, location string) (int, error) {
	poems, err := p.Clean(ctx, location)
	if err != nil {
		return 0, err
	}

	_, err = p.AssignTopics(poems)
	if err != nil {
		return 0, err
	}

	err = p.GenerateEmbeddings(poems)
	if err != nil {
		return 0, err
	}

	return p.Upload(ctx, poems)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (p *Poetry) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	if p.Poems == nil {
		return helper.NewError("change index type", fmt.Errorf("database not connected, use Connect() first"))
	}
	return p.Poems.ChangeIndexType(ctx, indexType, params)
}

// Search embeds query and returns the stored poems closest to it
func (p *Poetry) Search(ctx context.Context, query string, limit int) ([]*model.Poem, error) {
	if p.Poems == nil {
		return nil, helper.NewError("search", fmt.Errorf("database not connected, use Connect() first"))
	}
	if p.Pipeline == nil || p.Pipeline.Embedder == nil {
		return nil, helper.NewError("search", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	// Generate embedding from query
	embeddings, err := p.Pipeline.Embedder([]string{query})
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}
	if len(embeddings) != 1 {
		return nil, helper.NewError("generate embedding", fmt.Errorf("expected 1 embedding, got %d", len(embeddings)))
	}

	return p.Poems.SelectPoemsBySimilarity(ctx, embeddings[0], limit)
}
