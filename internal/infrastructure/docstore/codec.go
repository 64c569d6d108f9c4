package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// MarshalDocument serializa un documento para los backends que lo guardan como JSON.
func MarshalDocument(doc repository.Document) ([]byte, error) {
	if doc == nil {
		doc = repository.Document{}
	}
	return json.Marshal(doc)
}

// UnmarshalDocument conserva los números como json.Number para no perder precisión en montos.
func UnmarshalDocument(raw []byte) (repository.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc repository.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decodificar documento: %w", err)
	}
	if doc == nil {
		doc = repository.Document{}
	}
	return doc, nil
}
