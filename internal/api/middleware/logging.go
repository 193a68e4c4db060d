package middleware

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
)

// Logging пишет строку на каждый запрос и перехватывает панику обработчика
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			defer func() {
				if p := recover(); p != nil {
					logger.Error("%s %s - panic: request_id=%s, panic=%v",
						r.Method, r.URL.Path, GetRequestID(r.Context()), p)
					handlers.RespondInternalError(rec)
				}
				logger.Info("%s %s - %d in %s: request_id=%s",
					r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), GetRequestID(r.Context()))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
