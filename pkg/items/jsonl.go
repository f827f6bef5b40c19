package items

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/LegumeFederation/intermine-legfed/internal/util"
)

// JSONLinesBackend appends one JSON record per line to a file.
type JSONLinesBackend struct {
	path string
	f    *os.File
	w    *bufio.Writer
	enc  *json.Encoder
}

func NewJSONLinesBackend(path string) (*JSONLinesBackend, error) {
	if err := util.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	return &JSONLinesBackend{path: path, f: f, w: w, enc: json.NewEncoder(w)}, nil
}

func (b *JSONLinesBackend) Path() string { return b.path }

func (b *JSONLinesBackend) Write(_ context.Context, records []Record) error {
	for _, r := range records {
		if err := b.enc.Encode(r); err != nil {
			return fmt.Errorf("encode %s: %w", r.ID, err)
		}
	}
	return nil
}

func (b *JSONLinesBackend) Close() error {
	if err := b.w.Flush(); err != nil {
		_ = b.f.Close()
		return fmt.Errorf("flush %s: %w", b.path, err)
	}
	return b.f.Close()
}
