package locallog

import (
	"bytes"
	"encoding/json"

	"github.com/dagbolade/proposal-box/internal/answer"
)

// decodeLog parses a stored slot value. Anything that is not a JSON array is
// reported as ErrLogCorrupt. Array elements that are not objects decode to an
// empty record so the rest of the log stays readable.
func decodeLog(raw string) ([]answer.Record, error) {
	data := bytes.TrimSpace([]byte(raw))
	if !json.Valid(data) || len(data) == 0 || data[0] != '[' {
		return nil, ErrLogCorrupt
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, ErrLogCorrupt
	}

	records := make([]answer.Record, 0, len(items))
	for _, item := range items {
		var rec answer.Record
		if err := json.Unmarshal(item, &rec); err != nil {
			rec = answer.Record{}
		}
		records = append(records, rec)
	}

	return records, nil
}

func encodeLog(records []answer.Record) (string, error) {
	if records == nil {
		records = []answer.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
