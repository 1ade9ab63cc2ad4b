package builds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const errorBodyLimit = 2048

// Error represents a non-2xx response from a metadata endpoint.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("builds: %s (status=%d)", e.Message, e.Status)
}

// decodeError materializes an Error from a failed HTTP response. GitHub
// returns {"message": ...}; the builds bucket returns plain text or XML, which
// is carried through as a trimmed snippet.
func decodeError(resp *http.Response) error {
	if resp == nil {
		return errors.New("builds: nil response")
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	closeErr := resp.Body.Close()
	if readErr != nil {
		joined := errors.Join(readErr, closeErr)
		return fmt.Errorf("builds: read error response: %w", joined)
	}
	if closeErr != nil {
		return fmt.Errorf("builds: close error response: %w", closeErr)
	}

	var be Error
	if err := json.Unmarshal(body, &be); err == nil && be.Message != "" {
		be.Status = resp.StatusCode
		return &be
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
