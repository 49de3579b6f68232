// Package transfer writes snapshots to files and reads them back, so a
// session can be archived or moved to another machine.
package transfer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/bridge-scorer/internal/game/state"
)

// Format is a file encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatProtobuf Format = "pb"
)

// FormatFor picks the encoding from the file extension; unknown extensions
// fall back to JSON.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pb") {
		return FormatProtobuf
	}
	return FormatJSON
}

// Encode serializes snap.
func Encode(snap state.Snapshot, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if format != FormatProtobuf {
		return data, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return proto.Marshal(st)
}

// Decode turns data back into snapshot JSON suitable for State.RestoreJSON.
func Decode(data []byte, format Format) ([]byte, error) {
	if format != FormatProtobuf {
		return data, nil
	}
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	out, err := json.Marshal(st.AsMap())
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return out, nil
}

// Export writes the state to path.
func Export(st *state.State, path string) error {
	data, err := Encode(st.Export(), FormatFor(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

// Import restores the state from path. A file that does not hold a complete
// snapshot leaves the state untouched.
func Import(st *state.State, path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	raw, err := Decode(data, FormatFor(path))
	if err != nil {
		return err
	}
	return st.RestoreJSON(raw)
}
