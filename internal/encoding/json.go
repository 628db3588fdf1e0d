// Package encoding provides utilities for encoding and decoding data.
package encoding

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidJSON marks a document that exists but does not decode into the
// requested shape.
var ErrInvalidJSON = errors.New("invalid JSON document")

// LoadJSON reads a JSON file and unmarshals it into the provided value.
// Returns nil, nil if the file does not exist.
// A document that decodes to JSON null is rejected with ErrInvalidJSON.
// Returns an error for other file access or parsing issues.
func LoadJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return ParseJSON[T](data)
}

// SaveJSON marshals the value to indented JSON and atomically replaces the
// file at path. Creates parent directories if they don't exist.
// Uses 0600 permissions for the file.
func SaveJSON[T any](path string, value T) error {
	data, err := ToJSONIndent(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return WriteFileAtomic(path, append(data, '\n'), 0600)
}

// ParseJSON unmarshals JSON data into the provided type.
// Returns an error wrapping ErrInvalidJSON if parsing fails.
func ParseJSON[T any](data []byte) (*T, error) {
	var result *T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	if result == nil {
		return nil, fmt.Errorf("%w: document is null", ErrInvalidJSON)
	}

	return result, nil
}

// ToJSONIndent marshals a value to indented JSON bytes.
// Returns an error if marshaling fails.
func ToJSONIndent[T any](value T) ([]byte, error) {
	return json.MarshalIndent(value, "", "  ")
}
