package usecase

// maxChunkSize bounds the text handed to a single extraction call.
const maxChunkSize = 5000

// chunkText splits text into consecutive rune slices of at most size runes.
// Concatenating the result reproduces the input; empty input yields nil.
func chunkText(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
