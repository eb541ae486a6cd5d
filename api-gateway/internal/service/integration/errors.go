package integration

import (
	"fmt"
	"io"
	"net/http"
)

// maxBodySize ограничивает читаемое тело ответа соседа.
const maxBodySize = 64 << 10

// UpstreamError - соседний сервис не ответил, ответил не 2xx или вернул тело,
// которое не удалось разобрать. Status == 0, если ответа не было вовсе.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
	Err     error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s returned status %d: %v: %s", e.Service, e.Status, e.Err, e.Body)
	default:
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func readBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	return string(body)
}
