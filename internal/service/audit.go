package service

import (
	"edumart/internal/models"
	"edumart/internal/repository"
	"edumart/pkg/logger"
)

// AuditService is the fire-and-forget audit sink. A failed audit write is
// logged and swallowed; it must never block the mutation it describes.
type AuditService struct {
	auditRepo *repository.AuditLogRepository
}

func NewAuditService(auditRepo *repository.AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) Record(actorID *uint, action, entityType string, entityID uint, details, ip string) {
	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IP:         ip,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		logger.L().WithError(err).Warnf("audit write failed: %s %s/%d", action, entityType, entityID)
	}
}

func (s *AuditService) List(limit, offset int) ([]models.AuditLog, error) {
	return s.auditRepo.List(limit, offset)
}
