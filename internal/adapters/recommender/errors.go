package recommender

import "errors"

// ErrRecommendationFetchFailed is returned when the recommendation service
// cannot produce a usable recommendation for a query.
var ErrRecommendationFetchFailed = errors.New("recommendation fetch failed")
