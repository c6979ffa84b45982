package noemamem

import (
	"fmt"
	"time"
)

// Milestone statuses.
const (
	MilestonePlanned = "planned"
	MilestoneActive  = "active"
	MilestoneDone    = "done"
	MilestoneDropped = "dropped"
)

func (s *Store) AddMilestone(project, title string, due *time.Time) (*Milestone, error) {
	var dueArg any
	if due != nil {
		dueArg = due.UTC().Format("2006-01-02 15:04:05")
	}

	result, err := s.db.Exec(queryInsertMilestone, project, title, dueArg)
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &Milestone{
		ID:      id,
		Project: project,
		Title:   title,
		Status:  MilestonePlanned,
		Due:     due,
	}, nil
}

func (s *Store) SetMilestoneStatus(id int64, status string) error {
	switch status {
	case MilestonePlanned, MilestoneActive, MilestoneDone, MilestoneDropped:
	default:
		return fmt.Errorf("unknown milestone status %q", status)
	}

	_, err := s.db.Exec(querySetMilestoneStatus, status, id)
	return err
}

func (s *Store) MilestonesByStatus(status string) ([]*Milestone, error) {
	rows, err := s.db.Query(queryMilestonesByStatus, status)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var milestones []*Milestone

	for rows.Next() {
		var m Milestone
		if err := rows.Scan(&m.ID, &m.Project, &m.Title, &m.Status, &m.Due, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		milestones = append(milestones, &m)
	}

	return milestones, rows.Err()
}

// Failure severities.
const (
	SeverityMinor    = "minor"
	SeverityMajor    = "major"
	SeverityCritical = "critical"
)

func (s *Store) LogFailure(cycleID, component, description, severity, lesson string) (*Failure, error) {
	switch severity {
	case SeverityMinor, SeverityMajor, SeverityCritical:
	default:
		return nil, fmt.Errorf("unknown failure severity %q", severity)
	}

	result, err := s.db.Exec(queryInsertFailure, nullable(cycleID), component, description, severity, nullable(lesson))
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &Failure{
		ID:          id,
		CycleID:     cycleID,
		Component:   component,
		Description: description,
		Severity:    severity,
		Lesson:      lesson,
	}, nil
}

func (s *Store) RecentFailures(limit int) ([]*Failure, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(queryRecentFailures, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var failures []*Failure

	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.ID, &f.CycleID, &f.Component, &f.Description, &f.Severity, &f.Lesson, &f.CreatedAt); err != nil {
			return nil, err
		}
		failures = append(failures, &f)
	}

	return failures, rows.Err()
}
