package catalog

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conduit-lang/typegraph/internal/types"
	"github.com/conduit-lang/typegraph/internal/util/orderedjson"
)

// CompressedSuffix is appended to file names written with compression.
const CompressedSuffix = ".gz"

type settingsRecord struct {
	Name              string                    `json:"name"`
	Version           string                    `json:"version"`
	IsSingleton       bool                      `json:"isSingleton"`
	ConfigurationType *types.CrossFileReference `json:"configurationType,omitempty"`
}

type indexRecord struct {
	Resources orderedjson.Object `json:"resources"`
	Settings  *settingsRecord    `json:"settings,omitempty"`
}

// SerializeTypes writes nodes as a types document.
// The output is deterministic: records appear in sequence order and object
// properties in declaration order.
func SerializeTypes(w io.Writer, nodes []types.Type) error {
	records := make([]orderedjson.Object, len(nodes))
	for i, node := range nodes {
		if node == nil {
			return fmt.Errorf("failed to serialize type #/%d: nil type", i)
		}
		rec, err := encodeNode(node)
		if err != nil {
			return fmt.Errorf("failed to serialize type #/%d: %w", i, err)
		}
		records[i] = rec
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize types: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write types: %w", err)
	}
	return nil
}

// DeserializeTypes decodes a types document. On error no nodes are returned.
func DeserializeTypes(data []byte) ([]types.Type, error) {
	return DeserializeTypesFile(DefaultTypesFileName, data)
}

// DeserializeTypesFile is DeserializeTypes for a document with a known name,
// which is reported in errors.
func DeserializeTypesFile(document string, data []byte) ([]types.Type, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &MalformedCatalogError{Document: document, Offset: -1, Reason: "invalid types document", Err: err}
	}

	nodes := make([]types.Type, len(raws))
	for i, raw := range raws {
		node, err := decodeNode(raw)
		if err != nil {
			return nil, &MalformedCatalogError{Document: document, Offset: i, Reason: err.Error()}
		}
		nodes[i] = node
	}

	if err := validateNodes(document, nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// SerializeIndex writes the index document. Resource keys are sorted.
func SerializeIndex(w io.Writer, index *TypeIndex) error {
	if index == nil {
		return fmt.Errorf("index cannot be nil")
	}

	rec := indexRecord{Resources: orderedjson.Object{}}
	for _, name := range index.ResourceNames() {
		if err := rec.Resources.Add(name, index.Resources[name]); err != nil {
			return fmt.Errorf("failed to serialize index: %w", err)
		}
	}
	if s := index.Settings; s != nil {
		rec.Settings = &settingsRecord{
			Name:              s.Name,
			Version:           s.Version,
			IsSingleton:       s.IsSingleton,
			ConfigurationType: s.ConfigurationType,
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize index: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// DeserializeIndex decodes an index document. Duplicate resource keys are rejected.
func DeserializeIndex(data []byte) (*TypeIndex, error) {
	var rec indexRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		var dup *orderedjson.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, &MalformedCatalogError{Document: IndexFileName, Offset: -1, Key: dup.Key, Reason: "duplicate resource type"}
		}
		return nil, &MalformedCatalogError{Document: IndexFileName, Offset: -1, Reason: "invalid index document", Err: err}
	}

	index := &TypeIndex{Resources: make(map[string]types.CrossFileReference, len(rec.Resources))}
	for _, m := range rec.Resources {
		var ref types.CrossFileReference
		if err := json.Unmarshal(m.Value, &ref); err != nil {
			return nil, &MalformedCatalogError{Document: IndexFileName, Offset: -1, Key: m.Key, Reason: "invalid reference", Err: err}
		}
		if err := checkReference(m.Key, ref); err != nil {
			return nil, err
		}
		index.Resources[m.Key] = ref
	}

	if s := rec.Settings; s != nil {
		if s.ConfigurationType != nil {
			if err := checkReference("settings.configurationType", *s.ConfigurationType); err != nil {
				return nil, err
			}
		}
		index.Settings = &TypeSettings{
			Name:              s.Name,
			Version:           s.Version,
			IsSingleton:       s.IsSingleton,
			ConfigurationType: s.ConfigurationType,
		}
	}
	return index, nil
}

func checkReference(key string, ref types.CrossFileReference) error {
	if ref.File == "" {
		return &MalformedCatalogError{Document: IndexFileName, Offset: ref.Index, Key: key, Reason: "reference missing file"}
	}
	if ref.Index < 0 {
		return &MalformedCatalogError{Document: IndexFileName, Offset: ref.Index, Key: key, Reason: "negative reference"}
	}
	return nil
}

// Serialize encodes a catalog into its documents, keyed by logical file name.
func Serialize(c *Catalog) (map[string][]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, clash := c.Files[IndexFileName]; clash {
		return nil, fmt.Errorf("types document cannot be named %s", IndexFileName)
	}

	files := make(map[string][]byte, len(c.Files)+1)

	var buf bytes.Buffer
	if err := SerializeIndex(&buf, c.Index); err != nil {
		return nil, err
	}
	files[IndexFileName] = buf.Bytes()

	for name, nodes := range c.Files {
		var buf bytes.Buffer
		if err := SerializeTypes(&buf, nodes); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		files[name] = buf.Bytes()
	}
	return files, nil
}

// Deserialize is the inverse of Serialize. Every document other than the index
// is decoded as a types document, and all cross-file references must resolve.
func Deserialize(files map[string][]byte) (*Catalog, error) {
	indexData, ok := files[IndexFileName]
	if !ok {
		return nil, &MalformedCatalogError{Document: IndexFileName, Offset: -1, Reason: "index document missing"}
	}
	index, err := DeserializeIndex(indexData)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		if name != IndexFileName {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	c := &Catalog{Index: index, Files: make(map[string][]types.Type, len(names))}
	for _, name := range names {
		nodes, err := DeserializeTypesFile(name, files[name])
		if err != nil {
			return nil, err
		}
		c.Files[name] = nodes
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Compress gzips data.
func Compress(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}

	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress data: %w", err)
	}
	return decompressed, nil
}

// IsCompressed reports whether data starts with the gzip magic number.
func IsCompressed(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// WriteFiles writes serialized documents into dir, creating it if needed.
// With compress set every file is gzipped and gets CompressedSuffix.
// It returns the written paths in sorted order.
func WriteFiles(dir string, files map[string][]byte, compress bool) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		if strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("invalid document name %q", name)
		}

		data := files[name]
		fileName := name
		if compress {
			compressed, err := Compress(data)
			if err != nil {
				return nil, fmt.Errorf("failed to compress %s: %w", name, err)
			}
			data = compressed
			fileName += CompressedSuffix
		}

		path := filepath.Join(dir, fileName)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
