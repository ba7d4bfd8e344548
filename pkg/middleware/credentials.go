// pkg/middleware/credentials.go
package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"c8ymcp/pkg/auth"
	"c8ymcp/pkg/metrics"
	"c8ymcp/pkg/problems"
)

const challenge = `Basic realm="c8y-mcp", charset="UTF-8", Bearer realm="c8y-mcp"`

// Credentials extracts the caller's credential from the Authorization header
// and serves the rest of the chain inside a binding of scope. Requests
// without a usable credential are answered 401 and never reach next.
func Credentials(scope auth.Scope, trustForwarded bool, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred, err := auth.FromRequest(r, trustForwarded)
			if err != nil {
				metrics.AuthExtract.WithLabelValues("none", "rejected").Inc()
				log.Infow("auth rejected", "err", err, "reqid", RequestIDFrom(r.Context()))
				w.Header().Set("WWW-Authenticate", challenge)
				problems.Write(w, problems.Problem{
					Type:   problems.Type("unauthenticated"),
					Title:  "Unauthorized",
					Status: http.StatusUnauthorized,
					Detail: err.Error(),
				})
				return
			}
			metrics.AuthExtract.WithLabelValues(cred.Scheme(), "ok").Inc()

			fields := []any{"tenant", cred.Tenant(), "scheme", cred.Scheme(), "reqid", RequestIDFrom(r.Context())}
			if b, ok := cred.(auth.Bearer); ok {
				if sub, exp, ok := b.Claims(); ok {
					fields = append(fields, "sub", sub, "exp", exp)
				}
			}
			log.Debugw("auth bound", fields...)

			_ = scope.Bind(r.Context(), cred, func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
		})
	}
}
