package automatic

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"lukechampine.com/frand"
)

// NewSeed draws fresh seed material for a run whose caller did not
// supply any.
func NewSeed() int64 {
	return int64(frand.Uint64n(1<<63 - 1))
}

// GenerateSeeds creates n random master seeds for deterministic runs.
func GenerateSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = NewSeed()
	}
	return seeds
}

// SaveSeeds writes seeds to a file in base64 format (one per line).
func SaveSeeds(seeds []int64, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	if _, err = writer.WriteString("# Deterministic run seeds (base64 URL-safe encoded, 8 bytes each)\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, seed := range seeds {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(seed))
		if _, err = writer.WriteString(base64.RawURLEncoding.EncodeToString(b[:]) + "\n"); err != nil {
			return fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return nil
}

// LoadSeeds reads seeds from a file in base64 format.
func LoadSeeds(path string) ([]int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds []int64
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("failed to decode seed at line %d: %w", lineNum, err)
		}
		if len(decoded) != 8 {
			return nil, fmt.Errorf("invalid seed length at line %d: got %d bytes, expected 8",
				lineNum, len(decoded))
		}
		seeds = append(seeds, int64(binary.LittleEndian.Uint64(decoded)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return seeds, nil
}
