package types

import "encoding/json"

// Label is a single classification returned by the detection service.
// The JSON field names match the wire shape stored in the results table.
type Label struct {
	Name       string  `json:"Name"`
	Confidence float64 `json:"Confidence"`
}

// MarshalLabels serializes labels for the labels attribute of a result
// item. A nil slice serializes as [] rather than null.
func MarshalLabels(labels []Label) (string, error) {
	if labels == nil {
		labels = []Label{}
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ResultRecord is the unit persisted per labeled image. Filename is the
// table's hash key; writes are unconditional, so labeling the same key
// twice overwrites the previous record.
type ResultRecord struct {
	Filename  string
	Timestamp string // ISO-8601 UTC, second precision
	Branch    string
	Labels    []Label
	ExpiresAt int64 // epoch seconds, consulted by the table's TTL sweep
}

// Response is the acknowledgment payload returned to the Lambda runtime.
type Response struct {
	OK       bool   `json:"ok"`
	Filename string `json:"filename"`
	Count    int    `json:"count"`
}
