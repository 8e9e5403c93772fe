package utils

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"time"

	"parcel-logistics/apierr"
	"parcel-logistics/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterFormDecoders teaches fiber's form parser the decimal and uuid types used by request DTOs.
// Forms send the literal "null" for empty optional numbers.
func RegisterFormDecoders() {
	registerOnce.Do(func() {
		fiber.SetParserDecoder(fiber.ParserConfig{
			IgnoreUnknownKeys: true,
			ZeroEmpty:         true,
			ParserType: []fiber.ParserType{
				{
					Customtype: decimal.Decimal{},
					Converter: func(s string) reflect.Value {
						d, err := decimal.NewFromString(strings.TrimSpace(s))
						if err != nil {
							return reflect.Value{}
						}
						return reflect.ValueOf(d)
					},
				},
				{
					Customtype: decimal.NullDecimal{},
					Converter: func(s string) reflect.Value {
						v, err := ParseNullDecimal(s)
						if err != nil {
							return reflect.Value{}
						}
						return reflect.ValueOf(v)
					},
				},
			},
		})
	})
}

// IsNullLiteral reports whether a form value means "no value".
func IsNullLiteral(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "null" || s == "undefined"
}

func ParseNullDecimal(s string) (decimal.NullDecimal, error) {
	if IsNullLiteral(s) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ParamUUID reads a route parameter as a uuid. A malformed id can never match a row, so it is reported
// with the same not found message as a missing one.
func ParamUUID(c *fiber.Ctx, name, notFoundMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, apierr.NotFound("%s", notFoundMsg)
	}
	return id, nil
}

// OptionalUUID parses s, treating null literals as absent.
func OptionalUUID(s string) (*uuid.UUID, error) {
	if IsNullLiteral(s) {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseManualDate accepts RFC 3339 timestamps or plain dates.
func ParseManualDate(s string) (*time.Time, error) {
	if IsNullLiteral(s) {
		return nil, nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apierr.Validation("Invalid manual date %q", s)
}

// sanitizeRequestBody sanitizes request body for file uploads and large content
func sanitizeRequestBody(c *fiber.Ctx) string {
	contentType := c.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		formData := make(map[string]interface{})

		if form, err := c.MultipartForm(); err == nil {
			for key, values := range form.Value {
				if len(values) > 0 {
					formData[key] = values[0]
				}
			}

			// File fields keep their name and size only
			for key, files := range form.File {
				fileInfo := make([]map[string]interface{}, len(files))
				for i, file := range files {
					fileInfo[i] = map[string]interface{}{
						"filename": file.Filename,
						"size":     file.Size,
						"content":  "[FILE_CONTENT_REMOVED]",
					}
				}
				formData[key] = fileInfo
			}
		}

		if jsonBytes, err := json.Marshal(formData); err == nil {
			return string(jsonBytes)
		}
		return "[MULTIPART_FORM_DATA]"
	}

	body := string(c.Body())
	if len(body) > 1000 && (strings.Contains(body, "data:image/") ||
		strings.Contains(body, "base64") ||
		isLikelyBase64(body)) {
		return "[LARGE_REQUEST_BODY_WITH_POSSIBLE_FILE_CONTENT]"
	}

	return body
}

// isLikelyBase64 detects if content looks like base64
func isLikelyBase64(content string) bool {
	if len(content) < 100 {
		return false
	}

	base64Chars := 0
	for _, char := range content {
		if (char >= 'A' && char <= 'Z') ||
			(char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '+' || char == '/' || char == '=' {
			base64Chars++
		}
	}

	return float64(base64Chars)/float64(len(content)) > 0.8
}

// CreateSanitizedLogEntry copies the request and response out of fiber's pooled buffers
// so the entry stays valid after the handler returns.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}
