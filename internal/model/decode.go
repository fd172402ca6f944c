package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// DecodeDocument decodes one document record. Input that is not a JSON
// object yields a *DecodeError wrapping ErrNotAMapping.
func DecodeDocument(data []byte) (*FiscalDocument, error) {
	trimmed := bytes.TrimSpace(data)
	trimmed = bytes.TrimPrefix(trimmed, []byte("\xef\xbb\xbf"))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, NewDecodeError("", "expected a JSON object", ErrNotAMapping)
	}

	var doc FiscalDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, NewDecodeError(typeErr.Field, "unexpected "+typeErr.Value, err)
		}
		return nil, NewDecodeError("", "malformed JSON", err)
	}
	return &doc, nil
}
