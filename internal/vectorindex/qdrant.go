package vectorindex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"docextract/internal/contextutil"
	"docextract/internal/extraction"
)

// qdrantAPI is the subset of *qdrant.Client used by QdrantIndex.
type qdrantAPI interface {
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
}

// QdrantIndex implements Index on a private Qdrant collection.
// Each instance owns one collection; Close drops it.
type QdrantIndex struct {
	client     qdrantAPI
	closer     func() error
	collection string
	size       int
	dim        int
	created    bool
}

// NewQdrantIndex connects to Qdrant and reserves a collection named
// "<prefix>-<uuid>". urlStr should be in the format "http://host:port";
// the gRPC port is derived from the HTTP port.
func NewQdrantIndex(urlStr, apiKey, prefix string) (*QdrantIndex, error) {
	host, port, err := ParseQdrantAddr(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	ix := newQdrantIndex(client, prefix)
	ix.closer = client.Close
	return ix, nil
}

func newQdrantIndex(client qdrantAPI, prefix string) *QdrantIndex {
	if prefix == "" {
		prefix = "docextract"
	}
	return &QdrantIndex{
		client:     client,
		collection: prefix + "-" + uuid.NewString(),
	}
}

// ParseQdrantAddr returns the gRPC host and port for a Qdrant HTTP URL.
// The gRPC port is the HTTP port + 1, defaulting to 6334.
func ParseQdrantAddr(urlStr string) (string, int, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			port = httpPort + 1
		}
	}
	return host, port, nil
}

// Collection returns the name of the collection backing the index.
func (ix *QdrantIndex) Collection() string {
	return ix.collection
}

// Build implements Index. It recreates the collection and upserts one
// point per vector, keyed by insertion index.
func (ix *QdrantIndex) Build(ctx context.Context, vectors [][]float32) error {
	logger := contextutil.LoggerFromContext(ctx)

	if err := ix.drop(ctx); err != nil {
		return err
	}
	ix.size, ix.dim = 0, 0
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("vector 0 is empty: %w", extraction.ErrDimensionMismatch)
	}
	points := make([]*qdrant.PointStruct, 0, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d: %w", i, len(v), dim, extraction.ErrDimensionMismatch)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectors(v...),
			Payload: qdrant.NewValueMap(map[string]any{"chunk_index": i}),
		})
	}

	err := ix.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: ix.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Euclid,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	ix.created = true

	wait := true
	if _, err := ix.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ix.collection,
		Wait:           &wait,
		Points:         points,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", ix.collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	ix.size, ix.dim = len(vectors), dim
	logger.DebugContext(ctx, "qdrant index built", "collection", ix.collection, "count", ix.size, "dim", dim)
	return nil
}

// Search implements Index. Qdrant reports plain Euclidean distance; it is
// squared here so both index backends rank and report identically.
func (ix *QdrantIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if ix.size == 0 {
		return nil, extraction.ErrEmptyIndex
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d: %w", len(query), ix.dim, extraction.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0: %w", extraction.ErrConfig)
	}

	// Every point is fetched so ties at the cutoff resolve by insertion
	// index here instead of by the server's ordering.
	limit := uint64(ix.size)
	scored, err := ix.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ix.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	hits := make([]Hit, 0, len(scored))
	for _, p := range scored {
		if p.GetId() == nil {
			continue
		}
		d := p.GetScore()
		hits = append(hits, Hit{Index: int(p.GetId().GetNum()), Distance: d * d})
	}
	sortHits(hits)
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len implements Index.
func (ix *QdrantIndex) Len() int {
	return ix.size
}

// Close drops the collection and releases the client connection.
func (ix *QdrantIndex) Close(ctx context.Context) error {
	err := ix.drop(ctx)
	if ix.closer != nil {
		if cerr := ix.closer(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (ix *QdrantIndex) drop(ctx context.Context) error {
	if !ix.created {
		return nil
	}
	if err := ix.client.DeleteCollection(ctx, ix.collection); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	ix.created = false
	return nil
}
