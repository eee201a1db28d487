package statefile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// utf8BOM frames every state file the game writes. Its absence means the
// file is not a state file, or was truncated from the front.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes the raw bytes of a state file into a generic tree of
// primitives. It only understands the container format; domain fields are
// the normalizer's concern.
func Parse(data []byte) (map[string]any, error) {
	if len(data) < len(utf8BOM) {
		return nil, &MalformedStateError{Reason: fmt.Sprintf("file too short (%d bytes)", len(data))}
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		return nil, &MalformedStateError{Reason: "missing UTF-8 byte-order mark"}
	}

	payload := data[len(utf8BOM):]
	var tree map[string]any
	if err := json.Unmarshal(payload, &tree); err != nil {
		return nil, &MalformedStateError{Reason: "undecodable JSON payload", Err: err}
	}
	return tree, nil
}

// ParseFile reads and parses the state file at path.
func ParseFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return Parse(data)
}
