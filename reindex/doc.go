// Package reindex rebuilds the keyword search index from the stored
// article titles. It is an operator tool for recovering from index
// corruption or from tokenizer changes: it walks every article in the
// corpus in batches and regenerates each article's index rows.
package reindex
