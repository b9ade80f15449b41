package qdrantSearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/domain/documentModel"
	"github.com/akolanti/LessonIndexer/internal/search"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger

// textFields get a word-tokenized payload index so title and description
// searches behave like an analyzed text field, not exact matching.
var textFields = []string{"title", "description", "objectives", "materials", "text"}
var keywordFields = []string{"id", "benchmarkId", "type"}

type Client struct {
	qObj       *qdrant.Client
	collection string
	dimension  uint64
}

var _ search.DocumentIndexer = (*Client)(nil)

func NewClient(cfg *config.Config) (*Client, error) {
	logger = logger_i.NewLogger("QdrantSearch")

	qc, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.QdrantHost,
		Port:     cfg.QdrantPort,
		APIKey:   cfg.QdrantAPIKey,
		UseTLS:   cfg.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}
	return &Client{
		qObj:       qc,
		collection: cfg.IndexName,
		dimension:  uint64(cfg.EmbeddingDimension),
	}, nil
}

func (c *Client) Close() error {
	logger.Info("Shutting down Qdrant")
	return c.qObj.Close()
}

// EnsureIndex creates the collection and its payload indexes when missing.
// An existing collection is left untouched, whatever its settings.
func (c *Client) EnsureIndex(ctx context.Context) error {
	if c.collection == "" {
		return errors.New("empty collection name")
	}

	exists, err := c.qObj.CollectionExists(ctx, c.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = c.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
		HnswConfig: &qdrant.HnswConfigDiff{
			M:           qdrant.PtrOf(uint64(16)),
			EfConstruct: qdrant.PtrOf(uint64(100)),
		},
	})
	if err != nil {
		return fmt.Errorf("could not create collection %s: %w", c.collection, err)
	}

	for _, field := range textFields {
		_, err = c.qObj.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: c.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeText.Enum(),
			FieldIndexParams: &qdrant.PayloadIndexParams{
				IndexParams: &qdrant.PayloadIndexParams_TextIndexParams{
					TextIndexParams: &qdrant.TextIndexParams{
						Tokenizer: qdrant.TokenizerType_Word,
						Lowercase: qdrant.PtrOf(true),
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("could not index field %s: %w", field, err)
		}
	}
	for _, field := range keywordFields {
		_, err = c.qObj.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: c.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("could not index field %s: %w", field, err)
		}
	}

	logger.Info("created collection", "collection", c.collection, "dimension", c.dimension)
	return nil
}

// IndexBatch upserts documents and returns how many went in. Invalid
// documents are dropped here rather than failing the whole call; re-upserting
// an id overwrites the previous point.
func (c *Client) IndexBatch(ctx context.Context, docs []documentModel.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		if err := search.ValidateDocument(doc, int(c.dimension)); err != nil {
			logger.Warn("dropping invalid document", "error", err)
			continue
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(doc.ID)),
			Vectors: qdrant.NewVectors(doc.Embedding...),
			Payload: qdrant.NewValueMap(doc.Payload()),
		})
	}
	if len(points) == 0 {
		return 0, nil
	}

	_, err := c.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return len(points), nil
}

func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]documentModel.Match, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.qObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error", err)
		return nil, err
	}

	matches := make([]documentModel.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, documentModel.Match{
			ID:          hit.Payload["id"].GetStringValue(),
			Score:       hit.Score,
			BenchmarkID: hit.Payload["benchmarkId"].GetStringValue(),
			Title:       hit.Payload["title"].GetStringValue(),
			Description: hit.Payload["description"].GetStringValue(),
			ResourceURL: hit.Payload["resource_url"].GetStringValue(),
		})
	}
	loggr.Debug("search complete", "hits", len(matches))
	return matches, nil
}

// pointID derives a stable UUID from the document id so repeat runs overwrite
// instead of duplicating. The original id stays queryable in the payload.
func pointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(docID)).String()
}
