package session

import (
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// AuditHandler registra cada cambio de sesión en el log.
func AuditHandler(log *logger.Logger) Handler {
	l := log.Named("session_audit")
	return func(s entity.Session) {
		if !s.Authenticated {
			l.Info().Str("session_id", s.ID).Msg("sesión cerrada")
			return
		}
		ev := l.Info()
		if s.RoleLookupFailed {
			ev = l.Warn()
		}
		ev.Str("session_id", s.ID).
			Str("user_id", s.UserID).
			Str("role", s.Role.String()).
			Bool("role_lookup_failed", s.RoleLookupFailed).
			Msg("sesión actualizada")
	}
}
