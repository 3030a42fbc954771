package services

import (
	"encoding/json"

	apperrors "moneta/internal/errors"
	"moneta/internal/remote"
)

// payloadWithoutID serializes a record and strips its id so the backend
// assigns its own.
func payloadWithoutID(record interface{}) (remote.Row, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	delete(decoded, "id")
	stripped, err := json.Marshal(decoded)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return stripped, nil
}

// decodeRow unmarshals a server-returned row into the given record.
func decodeRow[T any](row remote.Row) (T, error) {
	var record T
	if err := json.Unmarshal(row, &record); err != nil {
		return record, apperrors.Wrap(apperrors.ErrRemoteRejected, err)
	}
	return record, nil
}
