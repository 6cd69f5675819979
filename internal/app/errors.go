package service

import "errors"

// ErrRecommenderNotConfigured is returned by Recommend when no recommender was supplied.
var ErrRecommenderNotConfigured = errors.New("recommender not configured")
