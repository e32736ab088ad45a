// Package vector provides the qdrant-backed talent similarity index.
package vector

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/hiredeck/talentsearch/internal/domain"
)

// Config holds qdrant connection settings.
type Config struct {
	// URL is the qdrant server address (e.g. "https://qdrant.internal:6334").
	URL        string
	APIKey     string
	Collection string
	Dimensions int
}

// Repository implements similar-talent search over a qdrant collection.
// Each talent is one point; the point ID is derived deterministically from
// the applicant ID so upserts are idempotent.
type Repository struct {
	client     *qdrant.Client
	collection string
	dimensions int
}

// New creates a qdrant-backed vector repository.
func New(cfg Config) (*Repository, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection is required")
	}

	addr := cfg.URL
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "https://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse qdrant url: %w", err)
	}

	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant port: %w", err)
		}
		port = p
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   u.Hostname(),
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	return &Repository{
		client:     client,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}, nil
}

// EnsureCollection creates the talent collection if it does not exist.
func (r *Repository) EnsureCollection(ctx context.Context) error {
	exists, err := r.client.CollectionExists(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(r.dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// FindSimilarTalents returns talents whose profile embedding scores at or
// above threshold against the given vector, best first.
func (r *Repository) FindSimilarTalents(
	ctx context.Context, vec []float32, threshold float64, limit int,
) ([]domain.VectorHit, error) {
	lim := uint64(limit)
	thr := float32(threshold)

	points, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vec...),
		Limit:          &lim,
		ScoreThreshold: &thr,
		WithPayload:    qdrant.NewWithPayloadInclude("applicant_id"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrVectorIndexError, err)
	}

	hits := make([]domain.VectorHit, 0, len(points))
	for _, p := range points {
		id := applicantIDFromPayload(p.GetPayload())
		if id == "" {
			continue
		}
		hits = append(hits, domain.VectorHit{
			ApplicantID: id,
			Score:       float64(p.GetScore()),
		})
	}
	return hits, nil
}

// UpsertTalent writes a talent's profile embedding.
func (r *Repository) UpsertTalent(ctx context.Context, applicantID string, vec []float32) error {
	if len(vec) != r.dimensions {
		return fmt.Errorf("%w: got %d, collection expects %d",
			domain.ErrVectorDimMismatch, len(vec), r.dimensions)
	}

	_, err := r.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(pointID(applicantID)),
			Vectors: qdrant.NewVectors(vec...),
			Payload: qdrant.NewValueMap(map[string]any{"applicant_id": applicantID}),
		}},
	})
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %w", domain.ErrVectorIndexError, applicantID, err)
	}
	return nil
}

// DeleteTalent removes a talent's embedding.
func (r *Repository) DeleteTalent(ctx context.Context, applicantID string) error {
	_, err := r.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: r.collection,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(pointID(applicantID))),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", domain.ErrVectorIndexError, applicantID, err)
	}
	return nil
}

// Ping checks qdrant availability.
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check: %w", err)
	}
	return nil
}

// Close releases the underlying gRPC connection.
func (r *Repository) Close() error {
	return r.client.Close()
}

// pointID derives a stable UUID from an applicant ID.
func pointID(applicantID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(applicantID)).String()
}

func applicantIDFromPayload(payload map[string]*qdrant.Value) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload["applicant_id"]; ok {
		return v.GetStringValue()
	}
	return ""
}
