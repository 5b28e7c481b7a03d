package settings

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

// Defaults for a project created without details.
const (
	NewProjectName     = "New Site Estimate"
	NewProjectLocation = "TBD"
)

// ValidateProject checks a project's fields.
func ValidateProject(p domain.Project) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&p.Location, validation.Length(0, 120)),
	)
}

// Projects returns the project list in creation order.
func (s *Settings) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Project(nil), s.projects...)
}

// ActiveProject returns the active project.
func (s *Settings) ActiveProject() domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

func (s *Settings) activeLocked() domain.Project {
	for _, p := range s.projects {
		if p.ID == s.activeID {
			return p
		}
	}
	if len(s.projects) > 0 {
		return s.projects[0]
	}
	return domain.DefaultProject
}

// CreateProject adds a project and makes it active. Blank fields get the
// "New Site Estimate" / "TBD" defaults.
func (s *Settings) CreateProject(id, name, location string, now time.Time) (domain.Project, error) {
	p := domain.Project{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Location:  strings.TrimSpace(location),
		Timestamp: now,
	}
	if p.Name == "" {
		p.Name = NewProjectName
	}
	if p.Location == "" {
		p.Location = NewProjectLocation
	}
	if err := ValidateProject(p); err != nil {
		return domain.Project{}, fmt.Errorf("settings: create project: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.projects {
		if existing.ID == p.ID {
			return domain.Project{}, fmt.Errorf("settings: project %s: %w", p.ID, domain.ErrAlreadyExists)
		}
	}
	s.projects = append(s.projects, p)
	s.activeID = p.ID
	return p, nil
}

// SwitchProject activates the project with id, or the single project whose
// name matches it case-insensitively.
func (s *Settings) SwitchProject(idOrName string) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.findLocked(idOrName)
	if !ok {
		return domain.Project{}, fmt.Errorf("settings: project %q: %w", idOrName, domain.ErrNotFound)
	}
	s.activeID = p.ID
	return p, nil
}

// DeleteProject removes a project. The last remaining project cannot be
// deleted; deleting the active one activates the first that remains.
func (s *Settings) DeleteProject(idOrName string) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.findLocked(idOrName)
	if !ok {
		return domain.Project{}, fmt.Errorf("settings: project %q: %w", idOrName, domain.ErrNotFound)
	}
	if len(s.projects) == 1 {
		return domain.Project{}, fmt.Errorf("settings: delete %s: %w", p.ID, domain.ErrLastProject)
	}
	kept := s.projects[:0:0]
	for _, existing := range s.projects {
		if existing.ID != p.ID {
			kept = append(kept, existing)
		}
	}
	s.projects = kept
	if s.activeID == p.ID {
		s.activeID = kept[0].ID
	}
	return p, nil
}

// ReplaceProjects installs a persisted project list and active id. Invalid
// entries are skipped; an empty result falls back to the default project.
func (s *Settings) ReplaceProjects(list []domain.Project, activeID string) {
	var valid []domain.Project
	seen := make(map[string]bool)
	for _, p := range list {
		if ValidateProject(p) != nil || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		valid = []domain.Project{domain.DefaultProject}
	}
	if !seen[activeID] {
		activeID = valid[0].ID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = valid
	s.activeID = activeID
}

func (s *Settings) findLocked(idOrName string) (domain.Project, bool) {
	key := strings.TrimSpace(idOrName)
	for _, p := range s.projects {
		if p.ID == key {
			return p, true
		}
	}
	var match domain.Project
	n := 0
	for _, p := range s.projects {
		if strings.EqualFold(p.Name, key) {
			match = p
			n++
		}
	}
	return match, n == 1
}
