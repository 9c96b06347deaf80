package avro

import (
	"fmt"

	havro "github.com/hamba/avro/v2"
)

// Validate parses data with a full Avro schema parser. Each call uses its own
// name cache so that unrelated schemas cannot collide.
func Validate(data []byte) error {
	if _, err := havro.ParseWithCache(string(data), "", &havro.SchemaCache{}); err != nil {
		return fmt.Errorf("invalid avro schema: %w", err)
	}
	return nil
}

// Validator validates a sequence of schemas through one shared name cache,
// so a schema may refer to named types defined by an earlier one.
type Validator struct {
	cache *havro.SchemaCache
}

// NewValidator returns a Validator with an empty name cache.
func NewValidator() *Validator {
	return &Validator{cache: &havro.SchemaCache{}}
}

// Add parses data and keeps the named types it defines for later calls.
func (v *Validator) Add(data []byte) error {
	if _, err := havro.ParseWithCache(string(data), "", v.cache); err != nil {
		return fmt.Errorf("invalid avro schema: %w", err)
	}
	return nil
}

// ValidateSet validates docs in order with a single Validator.
func ValidateSet(docs ...[]byte) error {
	v := NewValidator()
	for _, data := range docs {
		if err := v.Add(data); err != nil {
			return err
		}
	}
	return nil
}
