package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
)

// QueryRecord represents one logged prediction
type QueryRecord struct {
	ID              string          `json:"id" db:"id"`
	Text            string          `json:"text" db:"text"`
	Normalized      string          `json:"normalized" db:"normalized"`
	Intent          string          `json:"intent" db:"intent"`
	PredictedIntent string          `json:"predicted_intent" db:"predicted_intent"`
	Confidence      float64         `json:"confidence" db:"confidence"`
	Entities        EntitySet       `json:"entities" db:"entities"`
	Scores          pgvector.Vector `json:"-" db:"scores"` // Class probabilities, aligned with model labels
	ResponseSource  string          `json:"response_source" db:"response_source"`
	CorrectedIntent *string         `json:"corrected_intent,omitempty" db:"corrected_intent"`
	Distance        *float64        `json:"distance,omitempty" db:"distance"` // Set by similarity queries only
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Value implements driver.Valuer interface
func (e EntitySet) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan implements sql.Scanner interface
func (e *EntitySet) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*e = EntitySet{}
		return nil
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported type %T for EntitySet", value)
	}
}
