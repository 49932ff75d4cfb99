package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// DefaultListLimit caps listings that don't ask for a limit.
const DefaultListLimit = 50

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.EmployeeID == "" || !entry.ActivityType.Valid() {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	s.logger.Debug("activity logged", "employee_id", entry.EmployeeID, "type", entry.ActivityType)
	return nil
}

// Recent lists activity entries newest first.
func (s *Service) Recent(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, ErrInvalidInput
	}
	if opts.ActivityType != nil && !opts.ActivityType.Valid() {
		return nil, ErrInvalidInput
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultListLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	if entries == nil {
		entries = []ActivityEntry{}
	}
	return entries, nil
}

// EncodeDetails renders details as the JSON string stored on an entry.
// Encoding failures yield an empty string.
func EncodeDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	data, err := json.Marshal(details)
	if err != nil {
		return ""
	}
	return string(data)
}
