package contribution

import "context"

type ContributionService interface {
	YTDSummary(ctx context.Context, req SummaryRequest) (Summary, error)
	Compare(ctx context.Context, req CompareRequest) (Comparison, error)
}
