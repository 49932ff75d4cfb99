package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the cost the user table was seeded with.
const BcryptCost = 10

// Service handles the employee directory.
type Service struct {
	repo       Repository
	activities ActivityLogger
	logger     *slog.Logger
	now        func() time.Time
	cost       int
}

// NewService creates a new employee service. activities and logger may be nil.
func NewService(repo Repository, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		activities: activities,
		logger:     logger,
		now:        time.Now,
		cost:       BcryptCost,
	}
}

// WithCost returns a copy of the service hashing at the given bcrypt cost.
func (s *Service) WithCost(cost int) *Service {
	clone := *s
	clone.cost = cost
	return &clone
}

// Register validates, hashes the password and stores a new employee.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Employee, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: name %q", ErrDuplicate, name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking name: %w", err)
	}
	if email != "" {
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			return nil, fmt.Errorf("%w: email %q", ErrDuplicate, email)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("checking email: %w", err)
		}
	}

	emps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	id, err := assignID(strings.TrimSpace(req.EmployeeID), emps)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	emp := &Employee{
		ID:           id,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Position:     strings.TrimSpace(req.Position),
		Role:         strings.TrimSpace(req.Role),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("creating employee: %w", err)
	}

	s.logger.Info("employee registered", "name", emp.Name, "employee_id", emp.ID)
	if s.activities != nil {
		entry := &activity.ActivityEntry{
			EmployeeID:   emp.ID,
			ActivityType: activity.TypeEmployeeRegistered,
			Summary:      "registered " + emp.Name,
			Details:      activity.EncodeDetails(map[string]any{"employee_id": emp.ID, "email": emp.Email}),
		}
		if err := s.activities.LogActivity(ctx, entry); err != nil {
			s.logger.Warn("logging registration", "name", emp.Name, "error", err)
		}
	}
	return emp, nil
}

// assignID checks a requested identifier against every current effective
// identifier, including the positional ones of employees stored without an
// id. An empty request gets the next free EMP%03d from the new position.
func assignID(requested string, emps []Employee) (string, error) {
	taken := make(map[string]struct{}, len(emps))
	for i, emp := range emps {
		taken[EffectiveID(emp, i)] = struct{}{}
	}
	if requested != "" {
		if _, ok := taken[requested]; ok {
			return "", fmt.Errorf("%w: employee id %q", ErrDuplicate, requested)
		}
		return requested, nil
	}
	for n := len(emps) + 1; ; n++ {
		id := SyntheticID(n)
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
}

// List returns every employee in insertion order.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	emps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	if emps == nil {
		emps = []Employee{}
	}
	return emps, nil
}

// Count returns the number of employees.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting employees: %w", err)
	}
	return n, nil
}

// Get loads an employee by effective identifier. Rows stored without an id
// are matched by their positional EMP%03d.
func (s *Service) Get(ctx context.Context, employeeID string) (*Employee, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, ErrInvalidInput
	}
	emp, err := s.repo.GetByEmployeeID(ctx, employeeID)
	if err == nil {
		return emp, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading employee: %w", err)
	}

	emps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	for i := range emps {
		if emps[i].ID == "" && EffectiveID(emps[i], i) == employeeID {
			return &emps[i], nil
		}
	}
	return nil, ErrNotFound
}

// Exists reports whether employeeID names a registered employee.
func (s *Service) Exists(ctx context.Context, employeeID string) (bool, error) {
	_, err := s.Get(ctx, employeeID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
		return false, nil
	default:
		return false, err
	}
}

// Authenticate checks a name and password against the stored hash.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	emp, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading employee: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return emp, nil
}
