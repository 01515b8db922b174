package text

import (
	"errors"
	"strings"
)

var (
	ErrInvalidChunkSize = errors.New("chunk size must be greater than zero")
	ErrInvalidOverlap   = errors.New("overlap size must be non-negative and smaller than chunk size")
)

// Chunk is one window of source text. Metadata carries the rune offsets of the
// window within the original content so provenance can be reconstructed.
type Chunk struct {
	Text     string
	Metadata map[string]any
}

// ValidateParams checks a chunk-size/overlap pair without splitting anything.
func ValidateParams(chunkSize, overlapSize int) error {
	if chunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	if overlapSize < 0 || overlapSize >= chunkSize {
		return ErrInvalidOverlap
	}
	return nil
}

// Split cuts content into consecutive windows of at most chunkSize runes,
// where each window after the first overlaps the previous one by overlapSize
// runes. Units are Unicode code points, not bytes. Empty content yields an
// empty result. The final window may be shorter than chunkSize; it is emitted
// only when it contains at least one rune not already covered by the previous
// window.
//
// Split is pure: the same input and parameters always produce the same
// sequence.
func Split(content string, chunkSize, overlapSize int) ([]Chunk, error) {
	if err := ValidateParams(chunkSize, overlapSize); err != nil {
		return nil, err
	}

	if content == "" {
		return []Chunk{}, nil
	}

	runes := []rune(content)
	step := chunkSize - overlapSize

	chunks := make([]Chunk, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, Chunk{
			Text: string(runes[start:end]),
			Metadata: map[string]any{
				"start_index": start,
				"end_index":   end,
			},
		})

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}

// Normalize collapses surrounding whitespace before splitting content read
// straight from disk.
func Normalize(content string) string {
	return strings.TrimSpace(content)
}
