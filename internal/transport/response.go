package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"shopadmin/pkg/utils"
)

// envelope success codes
func envelopeOK(code int64) bool {
	return code == 0 || code == http.StatusOK
}

// isEnvelope reports whether a reply is a {code, message, data} wrapper
// rather than a bare value.
func isEnvelope(res gjson.Result) bool {
	if !res.IsObject() {
		return false
	}
	code := res.Get("code")
	if code.Type != gjson.Number {
		return false
	}
	return res.Get("data").Exists() || res.Get("message").Exists() || res.Get("msg").Exists()
}

func messageOf(res gjson.Result) string {
	for _, key := range []string{"message", "msg", "error"} {
		if v := res.Get(key); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// fieldsOf accepts {"errors": {"price": "..."}} as well as
// {"errors": [{"field": "price", "message": "..."}]}
func fieldsOf(res gjson.Result) map[string]string {
	var list gjson.Result
	for _, key := range []string{"errors", "fields", "data.errors"} {
		if v := res.Get(key); v.IsObject() || v.IsArray() {
			list = v
			break
		}
	}
	if !list.Exists() {
		return nil
	}

	fields := make(map[string]string)
	if list.IsObject() {
		list.ForEach(func(k, v gjson.Result) bool {
			if v.IsArray() {
				v = v.Get("0")
			}
			fields[k.String()] = v.String()
			return true
		})
	} else {
		list.ForEach(func(_, v gjson.Result) bool {
			name := v.Get("field").String()
			if name == "" {
				name = v.Get("path").String()
			}
			if name == "" {
				name = v.Get("property").String()
			}
			msg := messageOf(v)
			if name != "" {
				fields[name] = msg
			}
			return true
		})
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// decodeResponse maps a backend reply onto out or onto an APIError
func decodeResponse(status int, body []byte, out interface{}) error {
	body = bytes.TrimSpace(body)

	if status >= http.StatusBadRequest {
		return statusError(status, body)
	}

	if len(body) == 0 {
		return nil
	}
	if !gjson.ValidBytes(body) {
		if out == nil {
			return nil
		}
		apiErr := utils.NewHTTPStatusError(status, 0, "malformed response body")
		apiErr.Err = fmt.Errorf("invalid json: %.64q", body)
		return apiErr
	}

	res := gjson.ParseBytes(body)
	payload := body
	if isEnvelope(res) {
		code := res.Get("code").Int()
		if !envelopeOK(code) {
			return envelopeError(status, code, res)
		}
		data := res.Get("data")
		if !data.Exists() || data.Type == gjson.Null {
			return nil
		}
		payload = []byte(data.Raw)
	}
	if out == nil {
		return nil
	}

	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], payload...)
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		apiErr := utils.NewHTTPStatusError(status, 0, "unexpected response shape")
		apiErr.Err = err
		return apiErr
	}
	return nil
}

func statusError(status int, body []byte) *utils.APIError {
	var res gjson.Result
	if gjson.ValidBytes(body) {
		res = gjson.ParseBytes(body)
	}
	msg := messageOf(res)
	fields := fieldsOf(res)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return utils.NewAuthError(status, msg, nil)
	case status == http.StatusUnprocessableEntity:
		return utils.NewValidationError(status, msg, fields)
	case status == http.StatusBadRequest && len(fields) > 0:
		return utils.NewValidationError(status, msg, fields)
	}

	return utils.NewHTTPStatusError(status, int(res.Get("code").Int()), msg)
}

func envelopeError(status int, code int64, res gjson.Result) *utils.APIError {
	msg := messageOf(res)
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr := utils.NewAuthError(status, msg, nil)
		apiErr.Code = int(code)
		return apiErr
	case http.StatusUnprocessableEntity:
		apiErr := utils.NewValidationError(status, msg, fieldsOf(res))
		apiErr.Code = int(code)
		return apiErr
	}
	return utils.NewHTTPStatusError(status, int(code), msg)
}
