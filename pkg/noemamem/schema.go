package noemamem

const VectorDimensions = 768

const schema = `
CREATE TABLE IF NOT EXISTS ledger (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uid TEXT NOT NULL UNIQUE,
    mode TEXT NOT NULL CHECK (mode IN ('observe','reflect','hypothesize','decide','act','dream')),
    thought TEXT NOT NULL,
    confidence REAL NOT NULL DEFAULT 0.5,
    next_action TEXT,
    cycle_id TEXT,
    access_count INTEGER DEFAULT 0,
    last_accessed DATETIME,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_ledger_mode ON ledger(mode);
CREATE INDEX IF NOT EXISTS idx_ledger_cycle ON ledger(cycle_id);
CREATE INDEX IF NOT EXISTS idx_ledger_created ON ledger(created_at);

CREATE TABLE IF NOT EXISTS neurons (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    label TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL CHECK (kind IN ('concept','percept','goal','value','skill')),
    activation REAL NOT NULL DEFAULT 0,
    resting REAL NOT NULL DEFAULT 0.05,
    last_activated DATETIME,
    metadata TEXT,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_neurons_kind ON neurons(kind);
CREATE INDEX IF NOT EXISTS idx_neurons_activation ON neurons(activation);

CREATE TABLE IF NOT EXISTS edges (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id INTEGER NOT NULL REFERENCES neurons(id),
    target_id INTEGER NOT NULL REFERENCES neurons(id),
    relation TEXT NOT NULL,
    weight REAL NOT NULL DEFAULT 0.5,
    last_traversed DATETIME,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
CREATE INDEX IF NOT EXISTS idx_edges_relation ON edges(relation);

CREATE TABLE IF NOT EXISTS hypotheses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    statement TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'proposed' CHECK (status IN ('proposed','testing','supported','refuted','retired')),
    confidence REAL NOT NULL DEFAULT 0.5,
    falsification TEXT,
    evidence_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT (datetime('now')),
    updated_at DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_hypotheses_status ON hypotheses(status);

CREATE TABLE IF NOT EXISTS validation_ledger (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    hypothesis_id INTEGER NOT NULL REFERENCES hypotheses(id),
    run_uid TEXT NOT NULL,
    outcome TEXT NOT NULL CHECK (outcome IN ('confirming','disconfirming','inconclusive')),
    predicted REAL NOT NULL,
    note TEXT,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_validation_hypothesis ON validation_ledger(hypothesis_id);

CREATE TABLE IF NOT EXISTS confidence_calibration (
    bucket INTEGER PRIMARY KEY CHECK (bucket BETWEEN 0 AND 9),
    predicted REAL NOT NULL DEFAULT 0,
    observed REAL NOT NULL DEFAULT 0,
    samples INTEGER NOT NULL DEFAULT 0,
    brier REAL NOT NULL DEFAULT 0,
    updated_at DATETIME
);

CREATE TABLE IF NOT EXISTS theorems (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    statement TEXT NOT NULL,
    derivation TEXT,
    status TEXT NOT NULL DEFAULT 'conjecture' CHECK (status IN ('conjecture','proved','falsified')),
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS axioms (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    statement TEXT NOT NULL,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS phenomenology (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id TEXT,
    tone TEXT NOT NULL,
    intensity REAL NOT NULL DEFAULT 0.5 CHECK (intensity >= 0 AND intensity <= 1),
    report TEXT,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sovereignty_evaluations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subject TEXT NOT NULL,
    decision TEXT NOT NULL CHECK (decision IN ('autonomous','deferred','declined')),
    rationale TEXT,
    trust REAL NOT NULL DEFAULT 0.5,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS voice_registry (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    register TEXT,
    weight REAL NOT NULL DEFAULT 1.0,
    active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS viability_metrics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id TEXT,
    coherence REAL NOT NULL,
    calibration REAL NOT NULL,
    groundedness REAL NOT NULL,
    vitality REAL NOT NULL,
    viability REAL NOT NULL,
    detail TEXT,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS project_milestones (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'planned' CHECK (status IN ('planned','active','done','dropped')),
    due DATETIME,
    created_at DATETIME DEFAULT (datetime('now')),
    updated_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS failure_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id TEXT,
    component TEXT NOT NULL,
    description TEXT NOT NULL,
    severity TEXT NOT NULL DEFAULT 'minor' CHECK (severity IN ('minor','major','critical')),
    lesson TEXT,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS procedures (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    steps TEXT NOT NULL,
    trigger_hint TEXT,
    enabled INTEGER NOT NULL DEFAULT 1,
    updated_at DATETIME DEFAULT (datetime('now'))
);
`

const vecSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS vec_ledger USING vec0(
    entry_id INTEGER PRIMARY KEY,
    embedding FLOAT[768]
);
`

// master_bootstrap is the one-row view any sqlite3 client can read to get a
// JSON snapshot of the whole mind file. Recreated on every migrate so older
// mind files pick up shape changes.
const viewSchema = `
DROP VIEW IF EXISTS master_bootstrap;
CREATE VIEW master_bootstrap AS
SELECT json_object(
    'generated_at', datetime('now'),
    'ledger_entries', (SELECT COUNT(*) FROM ledger),
    'open_next_actions', (SELECT COUNT(*) FROM ledger WHERE next_action IS NOT NULL AND next_action != ''),
    'last_entry_at', (SELECT created_at FROM ledger ORDER BY id DESC LIMIT 1),
    'neurons', (SELECT COUNT(*) FROM neurons),
    'active_neurons', (SELECT COUNT(*) FROM neurons WHERE activation > resting),
    'edges', (SELECT COUNT(*) FROM edges),
    'hypotheses_open', (SELECT COUNT(*) FROM hypotheses WHERE status IN ('proposed','testing')),
    'hypotheses_supported', (SELECT COUNT(*) FROM hypotheses WHERE status = 'supported'),
    'hypotheses_refuted', (SELECT COUNT(*) FROM hypotheses WHERE status = 'refuted'),
    'theorems', (SELECT COUNT(*) FROM theorems),
    'axioms', (SELECT COUNT(*) FROM axioms),
    'failures', (SELECT COUNT(*) FROM failure_log),
    'milestones_active', (SELECT COUNT(*) FROM project_milestones WHERE status = 'active'),
    'viability', (SELECT viability FROM viability_metrics ORDER BY id DESC LIMIT 1),
    'viability_sampled_at', (SELECT created_at FROM viability_metrics ORDER BY id DESC LIMIT 1),
    'top_neurons', json((
        SELECT json_group_array(json_object('label', label, 'activation', round(activation, 3)))
        FROM (SELECT label, activation FROM neurons WHERE activation > resting ORDER BY activation DESC LIMIT 5)
    )),
    'open_hypotheses', json((
        SELECT json_group_array(json_object('statement', statement, 'confidence', round(confidence, 2)))
        FROM (SELECT statement, confidence FROM hypotheses WHERE status IN ('proposed','testing') ORDER BY id DESC LIMIT 5)
    ))
) AS snapshot;
`
