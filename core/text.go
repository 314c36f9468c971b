package core

import (
	"regexp"
	"strings"
)

// wordPattern matches runs of word characters the same way the corpus
// ingestion tooling does. Externally produced corpora index non-ASCII
// titles, so letters and digits match across all scripts.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Keywords lower-cases s and extracts its word tokens, dropping every
// non-word separator. The same tokenizer is applied to article titles at
// ingestion time and to queries at lookup time; a divergence between the
// two would silently empty the index.
func Keywords(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}
