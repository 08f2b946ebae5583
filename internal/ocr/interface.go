package ocr

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/nguyentantai21042004/chat-transcript/internal/dialogue"
)

// Recognizer turns raw image bytes into positioned text fragments.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, image []byte) ([]dialogue.Fragment, error)
}

// ErrTimeout marks a provider call that did not answer within its deadline.
var ErrTimeout = errors.New("ocr request timed out")

// Error is a failure reported by the OCR provider itself: a non-2xx status
// or an error code in the payload.
type Error struct {
	Provider   string
	Op         string
	StatusCode int
	Code       string
	Msg        string
}

func (e *Error) Error() string {
	switch {
	case e.Code != "" && e.Msg != "":
		return fmt.Sprintf("%s %s error %s: %s", e.Provider, e.Op, e.Code, e.Msg)
	case e.Code != "":
		return fmt.Sprintf("%s %s error %s", e.Provider, e.Op, e.Code)
	case e.Msg != "":
		return fmt.Sprintf("%s %s http %d: %s", e.Provider, e.Op, e.StatusCode, e.Msg)
	default:
		return fmt.Sprintf("%s %s http %d", e.Provider, e.Op, e.StatusCode)
	}
}

// wrapTransport tags deadline failures with ErrTimeout.
func wrapTransport(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
