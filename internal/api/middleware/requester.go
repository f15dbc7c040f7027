package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// AccessResolver определяет права пользователя
type AccessResolver interface {
	GetAccess(ctx context.Context, userID int64) (domain.Requester, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type requesterKey struct{}

// Requester один раз на запрос определяет права пользователя и кладет domain.Requester в контекст.
// Должен стоять после Auth. Если сервис прав недоступен, пользователь получает только права владельца.
func Requester(resolver AccessResolver, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, "Missing "+UserIDHeader+" header")
				return
			}

			requester, err := resolver.GetAccess(r.Context(), userID)
			if err != nil {
				logger.Error("Requester: failed to resolve access for user_id=%d, degrading to owner rights: %v", userID, err)
				requester = domain.Requester{ID: userID}
			}
			requester.ID = userID

			ctx := context.WithValue(r.Context(), requesterKey{}, requester)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequester возвращает пользователя, определенного Requester
func GetRequester(ctx context.Context) (domain.Requester, bool) {
	requester, ok := ctx.Value(requesterKey{}).(domain.Requester)
	return requester, ok
}

// WithRequester кладет пользователя в контекст в обход сервиса прав
func WithRequester(ctx context.Context, requester domain.Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, requester)
}
