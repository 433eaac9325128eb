package interfaces

import (
	"context"

	"github.com/sebastiensimon1/hiring-cafe/internal/domain/models"
	upstreammodel "github.com/sebastiensimon1/hiring-cafe/internal/upstream/model"
)

// интерфейс клиента внешнего сервиса hiring.cafe
type UpstreamClient interface {
	Search(ctx context.Context, query models.SearchQuery) (*upstreammodel.SearchResponse, error)
	FetchDetails(ctx context.Context, jobID string) (*upstreammodel.DetailsResponse, error)
}
