// Package dataset exports the source MongoDB collection as CSV for the
// training stage. Training itself consumes the CSV and is out of scope here.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Exporter streams one collection to CSV. The client is constructed at
// process start and injected.
type Exporter struct {
	Client     *mongo.Client
	Database   string
	Collection string
	Logger     *slog.Logger
}

// Export writes the collection to w as CSV: a header row from the union of
// field names (Mongo's _id dropped, columns sorted for stable output),
// then one row per document. Returns the number of data rows written.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	coll := e.Client.Database(e.Database).Collection(e.Collection)
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("find %s.%s: %w", e.Database, e.Collection, err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return 0, fmt.Errorf("read %s.%s: %w", e.Database, e.Collection, err)
	}
	if len(docs) == 0 {
		return 0, fmt.Errorf("dataset: collection %s.%s is empty", e.Database, e.Collection)
	}

	header := Columns(docs)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, doc := range docs {
		if err := cw.Write(Row(doc, header)); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	if e.Logger != nil {
		e.Logger.Info("dataset exported",
			"collection", e.Collection, "rows", len(docs), "columns", len(header))
	}
	return len(docs), nil
}

// ExportFile exports to a file path, creating parent directories and
// overwriting any previous export.
func (e *Exporter) ExportFile(ctx context.Context, path string) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create dataset dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	n, err := e.Export(ctx, f)
	if err != nil {
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}
	return n, nil
}

// Columns returns the sorted union of field names across docs, _id excluded.
func Columns(docs []bson.M) []string {
	seen := make(map[string]bool)
	for _, doc := range docs {
		for k := range doc {
			if k == "_id" {
				continue
			}
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Row renders one document against the header. Missing fields become empty
// cells; values render via fmt (the training stage re-types them anyway).
func Row(doc bson.M, header []string) []string {
	row := make([]string, len(header))
	for i, col := range header {
		v, ok := doc[col]
		if !ok || v == nil {
			continue
		}
		row[i] = fmt.Sprint(v)
	}
	return row
}
