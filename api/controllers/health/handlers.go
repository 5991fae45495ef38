package health

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/shophub-io/shophub-backend/api/responses"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// Live reports process liveness.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Ready reports whether the system of record and the mirror store are both
// reachable. Either failing makes the instance unready.
func Ready(record, mirror pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var err error
		if record != nil {
			err = multierr.Append(err, record.Ping(ctx))
		}
		if mirror != nil {
			err = multierr.Append(err, mirror.Ping(ctx))
		}

		if err != nil {
			if logg != nil {
				logg.Warn(r.Context(), "readiness check failed: "+err.Error())
			}
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
