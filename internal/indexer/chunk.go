package indexer

// SplitText splits a formatted listing into chunks of at most size runes,
// with overlap runes shared between consecutive chunks so context at chunk
// boundaries is not lost. The last chunk may be shorter. overlap must be
// smaller than size.
func SplitText(s string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(s)
	if len(runes) <= size {
		return []string{s}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
