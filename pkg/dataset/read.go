package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/geomkit/pkg/datum"
	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/hierarchy"
)

// ReadRecords decodes a JSON array of objects. Key order of each object is
// kept.
func ReadRecords(r io.Reader) ([]datum.Point, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read records")
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "records must be a JSON array")
	}
	var out []datum.Point
	for dec.More() {
		var p datum.Point
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "record %d", len(out))
		}
		out = append(out, p)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read records")
	}
	return out, nil
}

// ReadCSV decodes a CSV document whose first row names the fields. Cells
// that parse as numbers become numbers and empty cells become null.
func ReadCSV(r io.Reader) ([]datum.Point, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if err := errors.ValidateFieldName(header[i]); err != nil {
			return nil, fmt.Errorf("csv column %d: %w", i+1, err)
		}
	}
	out := make([]datum.Point, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var p datum.Point
		for i, h := range header {
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			p.Set(h, cell2value(cell))
		}
		out = append(out, p)
	}
	return out, nil
}

func cell2value(s string) datum.Value {
	if s == "" {
		return datum.Null()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return datum.Number(f)
	}
	return datum.String(s)
}

// ReadHierarchy decodes a JSON tree. A top-level array is read as flat
// records and wrapped under a synthetic root with DefaultFields.
func ReadHierarchy(r io.Reader) (*hierarchy.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ds, err := parseJSON(data)
	if err != nil {
		return nil, err
	}
	return ds.Hierarchy(DefaultFields()), nil
}

// ReadYAMLHierarchy decodes a YAML tree.
func ReadYAMLHierarchy(r io.Reader) (*hierarchy.Node, error) {
	var root hierarchy.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read yaml hierarchy")
	}
	return &root, nil
}

// Read decodes a document of the given format: json, csv or yaml.
func Read(r io.Reader, format string) (*Dataset, error) {
	switch format {
	case "json":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return parseJSON(data)
	case "csv":
		records, err := ReadCSV(r)
		if err != nil {
			return nil, err
		}
		return &Dataset{Records: records}, nil
	case "yaml", "yml":
		tree, err := ReadYAMLHierarchy(r)
		if err != nil {
			return nil, err
		}
		return &Dataset{Tree: tree}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported dataset format %q", format)
}

// ReadFile opens path and reads it according to its extension. Files without
// a known extension are read as JSON.
func ReadFile(path string) (*Dataset, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := Read(bufio.NewReader(f), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// FormatFromPath maps a file extension to a Read format.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// parseJSON sniffs the first token: arrays are records, objects are trees.
func parseJSON(data []byte) (*Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Dataset{}, nil
	}
	switch trimmed[0] {
	case '[':
		records, err := ReadRecords(bytes.NewReader(trimmed))
		if err != nil {
			return nil, err
		}
		return &Dataset{Records: records}, nil
	case '{':
		var root hierarchy.Node
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read hierarchy")
		}
		return &Dataset{Tree: &root}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "dataset must be a JSON array or object")
}
