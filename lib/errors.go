package lib

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ErrorText renders a backend rejection as "Code: message", falling back to
// the plain error string for anything that is not an api error.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return err.Error()
}
