package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fitness-portal/internal/events"
	"fitness-portal/internal/services"
	"fitness-portal/pkg/eventbus"
)

// AuditListener пишет подтвержденные сервером изменения в журнал.
type AuditListener struct {
	audit  services.AuditServiceInterface
	logger *zap.Logger
}

func NewAuditListener(audit services.AuditServiceInterface, logger *zap.Logger) *AuditListener {
	return &AuditListener{audit: audit, logger: logger}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	if !l.audit.Enabled() {
		l.logger.Info("Журнал действий выключен: БД не настроена")
		return
	}
	bus.Subscribe(events.ResourceChangedEvent{}.Name(), l.onChanged)
}

func (l *AuditListener) onChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ResourceChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}
	return l.audit.Record(ctx, e)
}
