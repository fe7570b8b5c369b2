package rules

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the built-in rules
func Default() *Rules {
	r, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded default.yaml is invalid: %v", err))
	}
	return r
}

// Load reads a rules file from disk. An empty path selects the built-in rules.
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a rules document
// KnownFields(true)로 오타/미사용 필드 즉시 실패
func Parse(data []byte) (*Rules, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	return newRules(doc)
}

// DefaultYAML returns a copy of the embedded default document
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// hashDocument hashes the struct's JSON form (deterministic field order)
func hashDocument(doc *Document) (string, error) {
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
