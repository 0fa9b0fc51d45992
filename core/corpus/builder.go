package corpus

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/siherrmann/poetry/core/dedup"
	"github.com/siherrmann/poetry/core/text"
	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
)

// Builder turns raw documents into the deduplicated, identified poem corpus.
type Builder struct {
	extractor  *text.Extractor
	eliminator *dedup.Eliminator
	namespace  uuid.UUID
	log        *slog.Logger
	metrics    *helper.Metrics
}

// NewBuilder creates a builder from the pipeline configuration.
// Metrics may be nil.
func NewBuilder(config model.PipelineConfig, logger *slog.Logger, metrics *helper.Metrics) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	namespace := PoemNamespace
	if config.Namespace != "" && config.Namespace != DefaultNamespaceName {
		namespace = NewNamespace(config.Namespace)
	}

	return &Builder{
		extractor:  text.NewExtractor(config.TitleMinLength, config.TitleMaxWords, logger),
		eliminator: dedup.NewEliminator(config.Window, config.Cutoff),
		namespace:  namespace,
		log:        logger,
		metrics:    metrics,
	}
}

// BuildCorpus builds the corpus with the default configuration.
func BuildCorpus(docs []model.RawDocument) []*model.Poem {
	return NewBuilder(model.DefaultPipelineConfig(), nil, nil).Build(docs)
}

// Build normalizes the documents, drops empty and duplicate texts and
// assigns the ids. The poems are returned sorted by title.
func (b *Builder) Build(docs []model.RawDocument) []*model.Poem {
	poems := make([]*model.Poem, 0, len(docs))
	for _, doc := range docs {
		poem := b.poem(doc)
		if poem.Text == "" {
			continue
		}
		poems = append(poems, poem)
	}
	b.metrics.PoemsDropped(helper.DropReasonEmpty, len(docs)-len(poems))
	b.log.Info("Number of poems before dedupe", slog.Int("count", len(poems)))

	poems = b.dedupe(poems)

	for _, poem := range poems {
		poem.ID = AssignIDIn(b.namespace, poem.Text)
	}
	b.metrics.PoemsOutput(len(poems))
	b.log.Info("Number of poems", slog.Int("count", len(poems)))

	return poems
}

func (b *Builder) poem(doc model.RawDocument) *model.Poem {
	normalized := text.Normalize(doc.Content)
	return &model.Poem{
		Date:     b.extractor.Date(normalized, doc.Filename),
		Title:    b.extractor.Title(normalized),
		Text:     normalized,
		Filename: doc.Filename,
	}
}

// dedupe sorts the poems by title, keeps the first poem of each text and
// removes near duplicates.
func (b *Builder) dedupe(poems []*model.Poem) []*model.Poem {
	slices.SortStableFunc(poems, func(x, y *model.Poem) int {
		return cmp.Compare(x.Title, y.Title)
	})

	seen := make(map[string]struct{}, len(poems))
	unique := make([]*model.Poem, 0, len(poems))
	texts := make([]string, 0, len(poems))
	for _, poem := range poems {
		if _, ok := seen[poem.Text]; ok {
			continue
		}
		seen[poem.Text] = struct{}{}
		unique = append(unique, poem)
		texts = append(texts, poem.Text)
	}
	b.metrics.PoemsDropped(helper.DropReasonExactDuplicate, len(poems)-len(unique))
	b.log.Info("Total texts", slog.Int("count", len(texts)))

	toRemove := b.eliminator.Eliminate(texts)
	b.log.Info("To remove", slog.Int("count", len(toRemove)))

	kept := make([]*model.Poem, 0, len(unique))
	for _, poem := range unique {
		if _, ok := toRemove[poem.Text]; ok {
			continue
		}
		kept = append(kept, poem)
	}
	b.metrics.PoemsDropped(helper.DropReasonNearDuplicate, len(unique)-len(kept))

	return kept
}
