package noemamem

const (
	queryInsertEntry = `INSERT INTO ledger (uid, mode, thought, confidence, next_action, cycle_id) VALUES (?, ?, ?, ?, ?, ?)`
	queryGetEntry    = `SELECT id, uid, mode, thought, confidence, COALESCE(next_action, ''), COALESCE(cycle_id, ''), access_count, last_accessed, created_at FROM ledger WHERE id = ?`
	queryTailLedger  = `SELECT id, uid, mode, thought, confidence, COALESCE(next_action, ''), COALESCE(cycle_id, ''), access_count, last_accessed, created_at FROM ledger ORDER BY id DESC LIMIT ?`
	queryLedgerCycle = `SELECT id, uid, mode, thought, confidence, COALESCE(next_action, ''), COALESCE(cycle_id, ''), access_count, last_accessed, created_at FROM ledger WHERE cycle_id = ? ORDER BY id ASC`
	queryOpenActions = `SELECT id, uid, mode, thought, confidence, COALESCE(next_action, ''), COALESCE(cycle_id, ''), access_count, last_accessed, created_at FROM ledger WHERE next_action IS NOT NULL AND next_action != '' ORDER BY id DESC LIMIT ?`

	querySearchLedgerPrefix = `SELECT id, uid, mode, thought, confidence, COALESCE(next_action, ''), COALESCE(cycle_id, ''), access_count, last_accessed, created_at FROM ledger WHERE (thought LIKE ? OR next_action LIKE ?)`
	querySearchLedgerSuffix = ` ORDER BY (confidence * 0.7 + (1.0 / (julianday('now') - julianday(COALESCE(last_accessed, created_at)) + 1)) * 0.3) DESC LIMIT ?`

	queryTouchEntries = `UPDATE ledger SET access_count = access_count + 1, last_accessed = datetime('now') WHERE id IN (%s)`

	queryInsertNeuron  = `INSERT INTO neurons (label, kind, resting, metadata) VALUES (?, ?, ?, ?)`
	queryGetNeuron     = `SELECT id, label, kind, activation, resting, last_activated, COALESCE(metadata, ''), created_at FROM neurons WHERE id = ?`
	queryNeuronByLabel = `SELECT id, label, kind, activation, resting, last_activated, COALESCE(metadata, ''), created_at FROM neurons WHERE label = ?`
	querySearchNeurons = `SELECT id, label, kind, activation, resting, last_activated, COALESCE(metadata, ''), created_at FROM neurons WHERE label LIKE ? LIMIT 10`
	queryActiveNeurons = `SELECT id, label, kind, activation, resting, last_activated, COALESCE(metadata, ''), created_at FROM neurons WHERE activation > resting ORDER BY activation DESC LIMIT ?`
	querySetActivation = `UPDATE neurons SET activation = ?, last_activated = datetime('now') WHERE id = ?`

	queryInsertEdge     = `INSERT INTO edges (source_id, target_id, relation, weight) VALUES (?, ?, ?, ?)`
	queryEdgesFrom      = `SELECT id, source_id, target_id, relation, weight, last_traversed, created_at FROM edges WHERE source_id = ? ORDER BY weight DESC`
	queryEdgesTo        = `SELECT id, source_id, target_id, relation, weight, last_traversed, created_at FROM edges WHERE target_id = ? ORDER BY weight DESC`
	queryConnectedEdges = `SELECT id, source_id, target_id, relation, weight, last_traversed, created_at FROM edges WHERE source_id = ? OR target_id = ? ORDER BY weight DESC`

	queryInsertHypothesis         = `INSERT INTO hypotheses (statement, confidence, falsification) VALUES (?, ?, ?)`
	queryGetHypothesis            = `SELECT id, statement, status, confidence, COALESCE(falsification, ''), evidence_count, created_at, updated_at FROM hypotheses WHERE id = ?`
	queryHypothesesByStatusPrefix = `SELECT id, statement, status, confidence, COALESCE(falsification, ''), evidence_count, created_at, updated_at FROM hypotheses WHERE status IN (`
	queryHypothesesByStatusSuffix = `) ORDER BY updated_at DESC`
	querySetHypothesisStatus      = `UPDATE hypotheses SET status = ?, updated_at = datetime('now') WHERE id = ?`
	queryUpdateHypothesisEvidence = `UPDATE hypotheses SET confidence = ?, evidence_count = evidence_count + 1, updated_at = datetime('now') WHERE id = ?`

	queryInsertValidation    = `INSERT INTO validation_ledger (hypothesis_id, run_uid, outcome, predicted, note) VALUES (?, ?, ?, ?, ?)`
	queryValidationsFor      = `SELECT id, hypothesis_id, run_uid, outcome, predicted, COALESCE(note, ''), created_at FROM validation_ledger WHERE hypothesis_id = ? ORDER BY id ASC`
	queryCountOutcomes       = `SELECT COUNT(*) FROM validation_ledger WHERE hypothesis_id = ? AND outcome = ?`
	queryAllResolvedOutcomes = `SELECT predicted, outcome FROM validation_ledger WHERE outcome IN ('confirming','disconfirming')`
	queryUpsertCalibration   = `INSERT INTO confidence_calibration (bucket, predicted, observed, samples, brier, updated_at) VALUES (?, ?, ?, ?, ?, datetime('now')) ON CONFLICT(bucket) DO UPDATE SET predicted = excluded.predicted, observed = excluded.observed, samples = excluded.samples, brier = excluded.brier, updated_at = excluded.updated_at`
	queryGetCalibration      = `SELECT bucket, predicted, observed, samples, brier FROM confidence_calibration ORDER BY bucket ASC`

	queryInsertTheorem = `INSERT INTO theorems (name, statement, derivation) VALUES (?, ?, ?)`
	queryGetTheorem    = `SELECT id, name, statement, COALESCE(derivation, ''), status, created_at FROM theorems WHERE name = ?`
	querySetTheorem    = `UPDATE theorems SET status = ? WHERE id = ?`
	queryInsertAxiom   = `INSERT OR IGNORE INTO axioms (id, name, statement) VALUES (?, ?, ?)`
	queryListAxioms    = `SELECT id, name, statement, created_at FROM axioms ORDER BY id ASC`

	queryInsertPhenomenology = `INSERT INTO phenomenology (cycle_id, tone, intensity, report) VALUES (?, ?, ?, ?)`
	queryRecentPhenomenology = `SELECT id, COALESCE(cycle_id, ''), tone, intensity, COALESCE(report, ''), created_at FROM phenomenology ORDER BY id DESC LIMIT ?`

	queryInsertSovereignty = `INSERT INTO sovereignty_evaluations (subject, decision, rationale, trust) VALUES (?, ?, ?, ?)`
	queryInsertVoice       = `INSERT OR IGNORE INTO voice_registry (name, register, weight) VALUES (?, ?, ?)`
	queryListVoices        = `SELECT id, name, COALESCE(register, ''), weight, active, created_at FROM voice_registry WHERE active = 1 ORDER BY weight DESC`

	queryInsertViability = `INSERT INTO viability_metrics (cycle_id, coherence, calibration, groundedness, vitality, viability, detail) VALUES (?, ?, ?, ?, ?, ?, ?)`
	queryLatestViability = `SELECT id, COALESCE(cycle_id, ''), coherence, calibration, groundedness, vitality, viability, COALESCE(detail, ''), created_at FROM viability_metrics ORDER BY id DESC LIMIT 1`

	queryInsertMilestone    = `INSERT INTO project_milestones (project, title, due) VALUES (?, ?, ?)`
	querySetMilestoneStatus = `UPDATE project_milestones SET status = ?, updated_at = datetime('now') WHERE id = ?`
	queryMilestonesByStatus = `SELECT id, project, title, status, due, created_at, updated_at FROM project_milestones WHERE status = ? ORDER BY COALESCE(due, created_at) ASC`

	queryInsertFailure  = `INSERT INTO failure_log (cycle_id, component, description, severity, lesson) VALUES (?, ?, ?, ?, ?)`
	queryRecentFailures = `SELECT id, COALESCE(cycle_id, ''), component, description, severity, COALESCE(lesson, ''), created_at FROM failure_log ORDER BY id DESC LIMIT ?`

	queryUpsertProcedure = `INSERT INTO procedures (slug, title, steps, trigger_hint, enabled, updated_at) VALUES (?, ?, ?, ?, ?, datetime('now')) ON CONFLICT(slug) DO UPDATE SET title = excluded.title, steps = excluded.steps, trigger_hint = excluded.trigger_hint, enabled = excluded.enabled, updated_at = excluded.updated_at`
	queryGetProcedure    = `SELECT slug, title, steps, COALESCE(trigger_hint, ''), enabled, updated_at FROM procedures WHERE slug = ?`
	queryListProcedures  = `SELECT slug, title, steps, COALESCE(trigger_hint, ''), enabled, updated_at FROM procedures WHERE enabled = 1 ORDER BY slug ASC`

	queryInsertVecEntry = `INSERT INTO vec_ledger (entry_id, embedding) VALUES (?, ?)`
	queryDeleteVecEntry = `DELETE FROM vec_ledger WHERE entry_id = ?`

	queryBootstrap = `SELECT snapshot FROM master_bootstrap`
)
