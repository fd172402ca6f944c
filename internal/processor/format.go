package processor

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
)

// Format represents the record layout of an input
type Format int

const (
	FormatUnknown Format = iota
	FormatObject
	FormatArray
	FormatJSONLines
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatObject:
		return "object"
	case FormatArray:
		return "array"
	case FormatJSONLines:
		return "jsonl"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat is returned for input that holds no JSON records
var ErrUnknownFormat = errors.New("unsupported input format: expected a JSON object, array or JSON lines")

var utf8BOM = []byte("\xef\xbb\xbf")

// maxLineSize bounds one JSON lines record
const maxLineSize = 8 << 20

// DetectFormat detects the record layout from content
func DetectFormat(data []byte) Format {
	data = trim(data)
	if len(data) == 0 {
		return FormatUnknown
	}

	switch data[0] {
	case '[':
		return FormatArray
	case '{':
		dec := json.NewDecoder(bytes.NewReader(data))
		var first json.RawMessage
		if err := dec.Decode(&first); err != nil {
			// a broken single object; decoding reports the error
			return FormatObject
		}
		if dec.More() {
			return FormatJSONLines
		}
		return FormatObject
	}
	return FormatUnknown
}

// SplitRecords splits input into raw records according to its format.
// Malformed lines of a JSON lines input are kept as records so they are
// reported individually.
func SplitRecords(data []byte) ([]json.RawMessage, Format, error) {
	data = trim(data)
	format := DetectFormat(data)

	switch format {
	case FormatObject:
		return []json.RawMessage{json.RawMessage(data)}, format, nil

	case FormatArray:
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, format, err
		}
		return records, format, nil

	case FormatJSONLines:
		var records []json.RawMessage
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			record := make([]byte, len(line))
			copy(record, line)
			records = append(records, record)
		}
		if err := scanner.Err(); err != nil {
			return nil, format, err
		}
		return records, format, nil
	}

	return nil, FormatUnknown, ErrUnknownFormat
}

func trim(data []byte) []byte {
	return bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(data), utf8BOM))
}
