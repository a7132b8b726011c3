package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrNoQuote        = errors.New("no quote available")
	ErrNoPool         = errors.New("no pool data available")
	ErrInvalidRequest = errors.New("invalid request")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnavailable    = errors.New("service unavailable")
)
