package recommend

import (
	"context"

	"github.com/amishk599/jobcache/internal/model"
)

// NopRecommender is used when recommendations.enabled is false. It never
// calls a model and returns no projects.
type NopRecommender struct{}

// NewNopRecommender returns a NopRecommender.
func NewNopRecommender() *NopRecommender {
	return &NopRecommender{}
}

// Recommend returns no projects and no error.
func (n *NopRecommender) Recommend(_ context.Context, _ model.Record) ([]Project, error) {
	return nil, nil
}
