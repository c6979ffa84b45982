package noemamem

import (
	"context"
	"database/sql"
	"time"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Store struct {
	db       *sql.DB
	embedder Embedder
}

// Ledger modes. The ledger is append-only: entries are never rewritten,
// only touched (access tracking) or dropped by the decay pass.
const (
	ModeObserve     = "observe"
	ModeReflect     = "reflect"
	ModeHypothesize = "hypothesize"
	ModeDecide      = "decide"
	ModeAct         = "act"
	ModeDream       = "dream"
)

type Entry struct {
	ID           int64
	UID          string
	Mode         string
	Thought      string
	Confidence   float64
	NextAction   string
	CycleID      string
	AccessCount  int
	LastAccessed *time.Time
	CreatedAt    time.Time
}

type Neuron struct {
	ID            int64
	Label         string
	Kind          string
	Activation    float64
	Resting       float64
	LastActivated *time.Time
	Metadata      string
	CreatedAt     time.Time
}

type Edge struct {
	ID            int64
	SourceID      int64
	TargetID      int64
	Relation      string
	Weight        float64
	LastTraversed *time.Time
	CreatedAt     time.Time
}

// Hypothesis statuses and the legal transitions between them are enforced
// by SetHypothesisStatus.
const (
	StatusProposed  = "proposed"
	StatusTesting   = "testing"
	StatusSupported = "supported"
	StatusRefuted   = "refuted"
	StatusRetired   = "retired"
)

type Hypothesis struct {
	ID            int64
	Statement     string
	Status        string
	Confidence    float64
	Falsification string
	EvidenceCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const (
	OutcomeConfirming    = "confirming"
	OutcomeDisconfirming = "disconfirming"
	OutcomeInconclusive  = "inconclusive"
)

type Validation struct {
	ID           int64
	HypothesisID int64
	RunUID       string
	Outcome      string
	Predicted    float64
	Note         string
	CreatedAt    time.Time
}

type CalibrationBucket struct {
	Bucket    int
	Predicted float64
	Observed  float64
	Samples   int
	Brier     float64
}

type Theorem struct {
	ID         int64
	Name       string
	Statement  string
	Derivation string
	Status     string
	CreatedAt  time.Time
}

type Axiom struct {
	ID        int64
	Name      string
	Statement string
	CreatedAt time.Time
}

type Phenomenology struct {
	ID        int64
	CycleID   string
	Tone      string
	Intensity float64
	Report    string
	CreatedAt time.Time
}

type SovereigntyEvaluation struct {
	ID        int64
	Subject   string
	Decision  string
	Rationale string
	Trust     float64
	CreatedAt time.Time
}

type Voice struct {
	ID        int64
	Name      string
	Register  string
	Weight    float64
	Active    bool
	CreatedAt time.Time
}

type Milestone struct {
	ID        int64
	Project   string
	Title     string
	Status    string
	Due       *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Failure struct {
	ID          int64
	CycleID     string
	Component   string
	Description string
	Severity    string
	Lesson      string
	CreatedAt   time.Time
}

type Procedure struct {
	Slug        string
	Title       string
	Steps       string
	TriggerHint string
	Enabled     bool
	UpdatedAt   time.Time
}
