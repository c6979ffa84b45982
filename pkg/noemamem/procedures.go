package noemamem

import "strings"

// ProcedureSpec is the YAML shape for procedure definitions. Operators can
// override the defaults with a procedures file; see internal/config.
type ProcedureSpec struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Steps       []string `yaml:"steps"`
	TriggerHint string   `yaml:"trigger_hint"`
	Enabled     *bool    `yaml:"enabled"`
}

// DefaultProcedures are seeded into every mind file. Upserts by slug, so
// operator overrides with the same slug win on the next open.
var DefaultProcedures = []ProcedureSpec{
	{
		Slug:  "wake-cycle",
		Title: "Wake cycle",
		Steps: []string{
			"Read the bootstrap snapshot",
			"Review open actions and active hypotheses",
			"Observe: append anything new since last wake",
			"Reflect: one reflect entry connecting recent observations",
			"Decide: pick at most one next_action",
			"Record a phenomenology report for the cycle",
		},
		TriggerHint: "cron",
	},
	{
		Slug:  "validate-hypothesis",
		Title: "Validate a hypothesis",
		Steps: []string{
			"Pick the testing hypothesis with the oldest last validation",
			"State the predicted outcome before looking at evidence",
			"Gather evidence via recall",
			"Record the validation with a one-line note",
		},
		TriggerHint: "when a hypothesis has been in testing for more than a day",
	},
	{
		Slug:  "dream",
		Title: "Dream consolidation",
		Steps: []string{
			"Recall a random recent entry and a random old entry",
			"Write one dream entry associating them",
			"Add or reinforce an edge between the concepts they touch",
		},
		TriggerHint: "low-traffic hours",
	},
	{
		Slug:  "post-mortem",
		Title: "Failure post-mortem",
		Steps: []string{
			"Log the failure with component and severity",
			"Write the lesson as a falsifiable statement",
			"Propose it as a hypothesis if it generalizes",
		},
		TriggerHint: "after any major or critical failure",
	},
}

// SeedProcedures upserts procedure definitions by slug.
func (s *Store) SeedProcedures(specs []ProcedureSpec) error {
	for _, spec := range specs {
		enabled := 1
		if spec.Enabled != nil && !*spec.Enabled {
			enabled = 0
		}

		steps := strings.Join(spec.Steps, "\n")
		if _, err := s.db.Exec(queryUpsertProcedure, spec.Slug, spec.Title, steps, nullable(spec.TriggerHint), enabled); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetProcedure(slug string) (*Procedure, error) {
	var p Procedure
	var enabled int
	row := s.db.QueryRow(queryGetProcedure, slug)

	err := row.Scan(&p.Slug, &p.Title, &p.Steps, &p.TriggerHint, &enabled, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Enabled = enabled == 1
	return &p, nil
}

func (s *Store) ListProcedures() ([]*Procedure, error) {
	rows, err := s.db.Query(queryListProcedures)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var procedures []*Procedure

	for rows.Next() {
		var p Procedure
		var enabled int
		if err := rows.Scan(&p.Slug, &p.Title, &p.Steps, &p.TriggerHint, &enabled, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Enabled = enabled == 1
		procedures = append(procedures, &p)
	}

	return procedures, rows.Err()
}

// StepList splits the stored steps back into a slice.
func (p *Procedure) StepList() []string {
	if p.Steps == "" {
		return nil
	}
	return strings.Split(p.Steps, "\n")
}
