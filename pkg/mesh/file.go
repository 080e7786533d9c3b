/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mesh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/mfreeman451/meshbridge/pkg/models"
)

// FileInterface reads the node database from a JSON dump that another
// process keeps up to date. The file is re-read on every snapshot.
type FileInterface struct {
	path     string
	myNodeID string
}

var _ Interface = (*FileInterface)(nil)

// NewFileInterface returns an interface backed by the node database dump at path.
func NewFileInterface(path, myNodeID string) (*FileInterface, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrReadNodeDB)
	}

	return &FileInterface{
		path:     path,
		myNodeID: myNodeID,
	}, nil
}

// NodeSnapshot implements Interface. A missing file is reported as no snapshot.
func (f *FileInterface) NodeSnapshot(_ context.Context) (Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("%w '%s': %w", ErrReadNodeDB, f.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, false, nil
	}

	snap, err := DecodeNodeDB(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", f.path, err)
	}

	return snap, true, nil
}

// MyNode implements Interface.
func (f *FileInterface) MyNode(ctx context.Context) (models.NodeRecord, bool, error) {
	if f.myNodeID == "" {
		return nil, false, ErrMyNodeIDRequired
	}

	snap, ok, err := f.NodeSnapshot(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	node, ok := snap.Get(f.myNodeID)

	return node, ok, nil
}

// Close implements Interface.
func (*FileInterface) Close() error {
	return nil
}

// DecodeNodeDB decodes a JSON object keyed by node id, keeping the key order
// of the document. Integral numbers decode as int64, others as float64.
func DecodeNodeDB(r io.Reader) (Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeNodeDB, err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNodeDBNotObject
	}

	snap := Snapshot{}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeNodeDB, err)
		}

		id, _ := tok.(string)

		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: node %s: %w", ErrDecodeNodeDB, id, err)
		}

		obj, ok := normalizeJSON(raw).(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: node %s is %T, not an object", ErrDecodeNodeDB, id, raw)
		}

		snap = append(snap, Entry{ID: id, Record: obj})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeNodeDB, err)
	}

	return snap, nil
}

func normalizeJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}

		if f, err := t.Float64(); err == nil {
			return f
		}

		return t.String()
	case map[string]interface{}:
		for k, inner := range t {
			t[k] = normalizeJSON(inner)
		}

		return t
	case []interface{}:
		for i, inner := range t {
			t[i] = normalizeJSON(inner)
		}

		return t
	default:
		return v
	}
}
