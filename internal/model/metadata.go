package model

import (
	"encoding/json"
	"time"
)

// MetadataRecord is an uploaded model-metadata document.
// The payload is opaque to the service and stored verbatim.
type MetadataRecord struct {
	ID           string          `json:"id"`
	FileName     string          `json:"file_name"`
	MetadataJSON json.RawMessage `json:"metadata_json"`
	OwnerID      string          `json:"-"`
	UploadedAt   time.Time       `json:"uploaded_at"`
}
