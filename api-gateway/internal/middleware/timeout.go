package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Timeout ставит дедлайн на контекст запроса. Если обработчик ничего не записал
// до истечения дедлайна, клиент получает 504. timeout <= 0 отключает ограничение.
func Timeout(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				ww.Header().Set("Content-Type", "application/json")
				ww.WriteHeader(http.StatusGatewayTimeout)
				ww.Write([]byte(`{"error":"Gateway Timeout","message":"Request timed out"}`))
			}
		}
		return http.HandlerFunc(fn)
	}
}
