package pipeline

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/httputil"
	"github.com/matzehuels/geomkit/pkg/observability"
)

// Fetcher downloads datasets named by http(s) URLs.
var Fetcher = httputil.NewFetcher()

// ReadDataset loads a dataset file or http(s) URL and reports the read to
// the pipeline hooks. The format follows the file or URL path extension.
func ReadDataset(ctx context.Context, path string) (*dataset.Dataset, error) {
	if httputil.IsURL(path) {
		return readRemote(ctx, path)
	}
	start := time.Now()
	ds, err := dataset.ReadFile(path)
	observability.Pipeline().OnReadComplete(ctx, path, recordCount(ds), time.Since(start), err)
	return ds, err
}

func readRemote(ctx context.Context, rawURL string) (*dataset.Dataset, error) {
	start := time.Now()
	data, err := Fetcher.Get(ctx, rawURL)
	if err != nil {
		observability.Pipeline().OnReadComplete(ctx, rawURL, 0, time.Since(start), err)
		return nil, err
	}
	format := "json"
	if u, err := url.Parse(rawURL); err == nil {
		format = dataset.FormatFromPath(u.Path)
	}
	return ReadDatasetBytes(ctx, rawURL, data, format)
}

// ReadDatasetBytes parses an in-memory dataset, as received by the API.
// An empty format sniffs JSON.
func ReadDatasetBytes(ctx context.Context, source string, data []byte, format string) (*dataset.Dataset, error) {
	if format == "" {
		format = "json"
	}
	start := time.Now()
	ds, err := dataset.Read(bytes.NewReader(data), format)
	observability.Pipeline().OnReadComplete(ctx, source, recordCount(ds), time.Since(start), err)
	return ds, err
}

// recordCount is the number of records, or tree nodes for a hierarchy.
func recordCount(ds *dataset.Dataset) int {
	switch {
	case ds == nil:
		return 0
	case ds.IsHierarchy():
		return ds.Tree.Count()
	}
	return len(ds.Records)
}
