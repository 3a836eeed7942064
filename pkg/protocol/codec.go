package protocol

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DecodePasswordInfo parses a password info document. Input starting with
// '{' is decoded as JSON, anything else as YAML. A JSON error body saved from
// the service is returned as its *ErrorResponse.
func DecodePasswordInfo(data []byte) (*PasswordInfo, error) {
	var info PasswordInfo

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty password info")
	}

	if trimmed[0] == '{' {
		if errResp := DecodeError(trimmed); errResp != nil {
			return nil, errResp
		}
		if err := json.Unmarshal(trimmed, &info); err != nil {
			return nil, fmt.Errorf("failed to parse password info JSON: %w", err)
		}
		return &info, nil
	}

	if err := yaml.Unmarshal(trimmed, &info); err != nil {
		return nil, fmt.Errorf("failed to parse password info YAML: %w", err)
	}
	return &info, nil
}

// DecodeError extracts an ErrorResponse from a JSON error body. It returns
// nil if the body carries no error code.
func DecodeError(body []byte) *ErrorResponse {
	code := json.Get(body, "code").ToString()
	if code == "" {
		return nil
	}
	return &ErrorResponse{
		Code:       ErrorCode(code),
		Message:    json.Get(body, "message").ToString(),
		Details:    json.Get(body, "details").ToString(),
		RetryAfter: json.Get(body, "retry_after").ToInt(),
	}
}
