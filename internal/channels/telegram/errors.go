package telegram

import (
	"errors"
	"fmt"

	"github.com/mymmrac/telego/telegoapi"
)

// HandleError is the terminal sink for per-update failures. It only logs.
func (d *Dispatcher) HandleError(err error) {
	if err == nil {
		return
	}
	d.logger.Error("update handling failed", "error", DescribeError(err))
}

// DescribeError formats Bot API errors with their code; everything else
// uses the error's own text.
func DescribeError(err error) string {
	var apiErr *telegoapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Telegram API Error: [%d] %s", apiErr.ErrorCode, apiErr.Description)
	}
	return err.Error()
}
