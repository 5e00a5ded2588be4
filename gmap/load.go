package gmap

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Load reads a PLINK-format genetic map file (whitespace-separated
// columns: chromosome, marker ID, genetic position in centiMorgans,
// base-pair position) and returns a Map built from its rows, grouped by
// chromosome name via chroms.
func Load(path string, chroms ChromIndexer) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gmap: opening %s: %w", path, err)
	}
	defer f.Close()

	chromAnchors := make(map[int][]Anchor)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("gmap: %s:%d: expected 4 columns, got %d", path, lineNo, len(fields))
		}
		genPos, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("gmap: %s:%d: invalid genetic position %q: %w", path, lineNo, fields[2], err)
		}
		pos, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("gmap: %s:%d: invalid position %q: %w", path, lineNo, fields[3], err)
		}
		chromIndex := chroms.Index(fields[0])
		chromAnchors[chromIndex] = append(chromAnchors[chromIndex], Anchor{Pos: pos, GenPos: genPos})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gmap: reading %s: %w", path, err)
	}
	m, err := NewMap(chromAnchors)
	if err != nil {
		return nil, fmt.Errorf("gmap: %s: %w", path, err)
	}
	return m, nil
}

// ChromIndexer resolves a chromosome name to the shared integer index
// marker.Marker stores, the same indexing vcf.ChromTable provides, so a
// genetic map file and the VCF inputs agree on chromosome identity.
type ChromIndexer interface {
	Index(name string) int
}
