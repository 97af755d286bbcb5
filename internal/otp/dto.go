package otp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SendRequest is the body of POST /send-otp.
type SendRequest struct {
	Email string `json:"email"`
}

// VerifyRequest is the body of POST /verify-otp.
type VerifyRequest struct {
	Email string `json:"email"`
	OTP   Code   `json:"otp"`
}

// Code is a one-time code sent by clients either as a JSON string or a number.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("otp must be a string or number")
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("otp must be a whole number")
	}
	*c = Code(n.String())
	return nil
}

func (c Code) String() string {
	return string(c)
}
