package backend

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
)

var errMalformed = errors.New("malformed safety status payload")

// decodeStatuses accepts {"user_data": [...]} as served by the backend, or
// a bare array. Ids may be numbers or strings; an absent or null location
// is left empty.
func decodeStatuses(data []byte) ([]domain.SafetyStatus, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", errMalformed)
	}

	var keys []string
	switch data[0] {
	case '[':
	case '{':
		keys = []string{"user_data"}
		if _, dataType, _, err := jsonparser.Get(data, keys...); err != nil || dataType != jsonparser.Array {
			return nil, fmt.Errorf("%w: user_data is not an array", errMalformed)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected body", errMalformed)
	}

	statuses := make([]domain.SafetyStatus, 0)
	var recordErr error
	index := 0

	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		defer func() { index++ }()
		if recordErr != nil {
			return
		}
		if err != nil {
			recordErr = err
			return
		}
		if dataType != jsonparser.Object {
			recordErr = fmt.Errorf("%w: record %d is not an object", errMalformed, index)
			return
		}

		s, err := decodeStatus(value)
		if err != nil {
			recordErr = fmt.Errorf("record %d: %w", index, err)
			return
		}
		statuses = append(statuses, s)
	}, keys...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if recordErr != nil {
		return nil, recordErr
	}
	return statuses, nil
}

func decodeStatus(record []byte) (domain.SafetyStatus, error) {
	id, err := identifier(record, "id")
	if err != nil {
		return domain.SafetyStatus{}, err
	}
	userID, err := identifier(record, "user_id")
	if err != nil {
		return domain.SafetyStatus{}, err
	}

	status, err := optionalString(record, "status")
	if err != nil {
		return domain.SafetyStatus{}, err
	}
	timestamp, err := optionalString(record, "timestamp")
	if err != nil {
		return domain.SafetyStatus{}, err
	}
	location, err := optionalString(record, "location")
	if err != nil {
		return domain.SafetyStatus{}, err
	}

	return domain.SafetyStatus{
		ID:        id,
		UserID:    userID,
		Status:    domain.ParseStatus(status),
		Timestamp: timestamp,
		Location:  location,
	}, nil
}

// identifier reads a required id that is either a JSON string or number.
func identifier(record []byte, key string) (string, error) {
	value, dataType, _, err := jsonparser.Get(record, key)
	if err != nil {
		return "", fmt.Errorf("%w: missing %s", errMalformed, key)
	}

	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", errMalformed, key, err)
		}
		if s == "" {
			return "", fmt.Errorf("%w: empty %s", errMalformed, key)
		}
		return s, nil
	case jsonparser.Number:
		return string(value), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string or number", errMalformed, key)
	}
}

// optionalString treats absent and null as "".
func optionalString(record []byte, key string) (string, error) {
	value, dataType, _, err := jsonparser.Get(record, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errMalformed, key, err)
	}

	switch dataType {
	case jsonparser.Null:
		return "", nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", errMalformed, key, err)
		}
		return s, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", errMalformed, key)
	}
}
