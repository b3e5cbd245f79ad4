package ingest

import "encoding/json"

// resultObjectKey is the envelope field carrying the JSON-encoded export.
const resultObjectKey = "resultObject"

// DecodeResultObject parses the embedded JSON array out of a webhook envelope.
// The upstream agent double-encodes its export: the envelope field holds a
// string that itself contains a JSON list. A missing field, a non-string
// value, unparseable JSON, or a non-list top level all fail the whole batch
// with an EnvelopeError; a broken envelope means the call is unusable, unlike
// a single bad CSV row.
//
// List elements that are not objects come back as nil records so the caller
// can count them against the batch total as record-level failures.
func DecodeResultObject(env RawRecord) ([]RawRecord, error) {
	raw, ok := env[resultObjectKey]
	if !ok {
		return nil, &EnvelopeError{Reason: "no resultObject found"}
	}
	encoded, ok := raw.(string)
	if !ok {
		return nil, &EnvelopeError{Reason: "resultObject must be a JSON-encoded string"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		// Distinguish "not JSON" from "JSON but not a list" for the caller's logs.
		var probe any
		if probeErr := json.Unmarshal([]byte(encoded), &probe); probeErr != nil {
			return nil, &EnvelopeError{Reason: "invalid JSON in resultObject: " + probeErr.Error()}
		}
		return nil, &EnvelopeError{Reason: "resultObject should contain a list"}
	}

	records := make([]RawRecord, len(items))
	for i, item := range items {
		var rec RawRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			records[i] = nil
			continue
		}
		records[i] = rec
	}
	return records, nil
}
