// Package httputil fetches remote documents for the dataset readers.
//
// # Overview
//
//   - [Fetcher]: bounded GET requests with status mapping
//   - [Retry]: automatic retry with exponential backoff
//
// # Retry
//
// [Fetcher.Get] retries transient failures:
//
//   - Network errors and timeouts
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other 4xx responses fail at once. 404 maps to NOT_FOUND so the API can
// answer with the same status.
//
// # Configuration
//
// [NewFetcher] defaults:
//
//   - Attempts: 3
//   - Base backoff: 1 second, doubling
//   - Request timeout: 30 seconds
//   - Body limit: 32 MiB
package httputil
