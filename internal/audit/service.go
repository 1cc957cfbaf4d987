// Package audit records catalog mutations as audit events.
package audit

import (
	"encoding/json"
	"log"

	"github.com/bookfolio/bookfolio/internal/database/audit"
	"github.com/bookfolio/bookfolio/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogCreate records the creation of an author or book.
func (s *Service) LogCreate(entityType string, entityID uint, description string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventCreate,
		Action:      entityType + "_create",
		Description: description,
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogUpdate records an update to an author or book.
func (s *Service) LogUpdate(entityType string, entityID uint, description string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventUpdate,
		Action:      entityType + "_update",
		Description: description,
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogDelete records the deletion of an author or book. cascadedBooks is the
// number of books removed alongside an author, zero otherwise.
func (s *Service) LogDelete(entityType string, entityID uint, description string, cascadedBooks int64) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: description,
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	if cascadedBooks > 0 {
		metadata := map[string]any{"cascaded_books": cascadedBooks}
		if mdBytes, err := json.Marshal(metadata); err == nil {
			event.Metadata = string(mdBytes)
		}
	}

	s.LogAsync(event)
}

// LogImport records a catalog import run.
func (s *Service) LogImport(description string, authorsCreated, booksCreated, skipped int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      "catalog_import",
		Description: description,
		EntityType:  "catalog",
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"authors_created": authorsCreated,
		"books_created":   booksCreated,
		"skipped":         skipped,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
