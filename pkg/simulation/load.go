package simulation

import (
	"context"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// LoadGraph fetches the compiled graph from store, reporting any failure as
// a *GraphLoadError.
func LoadGraph(ctx context.Context, store artifact.Store, key string) (*network.Graph, error) {
	g, err := artifact.Load(ctx, store, key)
	if err != nil {
		return nil, &GraphLoadError{Key: key, Cause: err}
	}
	return g, nil
}
