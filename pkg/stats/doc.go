// Package stats defines the repository statistics domain: the six data
// categories served by the pipeline, normalization from raw API payloads,
// compact number formatting, and the paginated download-count aggregator.
//
// The six categories are independent. Each is fetched, cached, and rendered
// on its own; no invariant ties one to another.
package stats
