// Package ingest builds the offline corpus from a directory of per-article
// text files.
//
// Each file named <title>.txt contributes one article: the stem becomes the
// title, the full contents become the body. Files are processed in
// lexicographic filename order, optionally capped by a limit on ingested
// articles. File reads run on a worker pool; upserts go through the store
// sequentially so each article commits atomically in order.
package ingest
