package events

import (
	"context"

	"github.com/rs/zerolog"
)

// AuditLogger deja en el log cada cambio confirmado.
type AuditLogger struct {
	log zerolog.Logger
}

// NewAuditLogger construye el suscriptor.
func NewAuditLogger(log zerolog.Logger) *AuditLogger {
	return &AuditLogger{log: log}
}

func (a *AuditLogger) EntityChanged(_ context.Context, entityType, id string) {
	a.log.Info().Str("entity", entityType).Str("id", id).Msg("entidad modificada")
}
