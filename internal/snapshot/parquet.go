package snapshot

import (
	"bytes"

	"github.com/parquet-go/parquet-go"
)

// parquetBytes encodes rows as a single snappy-compressed Parquet file.
// The schema comes from the row type's parquet struct tags, so column
// names match the warehouse tables.
func parquetBytes[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf, parquet.Compression(&parquet.Snappy))
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
