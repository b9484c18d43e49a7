package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"trustscore/models"
)

var _ SnapshotSource = (*CSVSource)(nil)

// CSVSource reads sellers.csv, orders.csv and reviews.csv from a directory.
// Columns are matched by header name; absent columns become missing fields.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a CSVSource rooted at dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// Load reads all three files. Any missing file is an error.
func (cs *CSVSource) Load(ctx context.Context) (*models.RawSnapshot, error) {
	snap := &models.RawSnapshot{}

	sellerRows, err := cs.readTable(ctx, "sellers.csv", "seller_id")
	if err != nil {
		return nil, err
	}
	for _, r := range sellerRows {
		snap.Sellers = append(snap.Sellers, sellerFromRow(r))
	}

	orderRows, err := cs.readTable(ctx, "orders.csv", "seller_id")
	if err != nil {
		return nil, err
	}
	for _, r := range orderRows {
		snap.Orders = append(snap.Orders, orderFromRow(r))
	}

	reviewRows, err := cs.readTable(ctx, "reviews.csv", "review_id", "seller_id")
	if err != nil {
		return nil, err
	}
	for _, r := range reviewRows {
		snap.Reviews = append(snap.Reviews, reviewFromRow(r))
	}

	return snap, nil
}

func (cs *CSVSource) readTable(ctx context.Context, name string, required ...string) ([]csvRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(cs.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header of %q: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv: %q lacks required column %q", path, col)
		}
	}

	var rows []csvRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read %q: %w", path, err)
		}
		rows = append(rows, csvRow{index: index, record: rec})
	}
	return rows, nil
}

// Close is a no-op; files are closed after each Load.
func (cs *CSVSource) Close() error {
	return nil
}

type csvRow struct {
	index  map[string]int
	record []string
}

func (r csvRow) get(col string) *string {
	i, ok := r.index[col]
	if !ok || i >= len(r.record) {
		return nil
	}
	v := r.record[i]
	return &v
}
