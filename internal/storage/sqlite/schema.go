package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	name          TEXT PRIMARY KEY,
	password_hash TEXT    NOT NULL,
	score         INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS scores_rank ON scores (score DESC, updated_at ASC, name ASC);
`

const selectScore = `SELECT name, password_hash, score, updated_at FROM scores WHERE name = ?`

const upsertScore = `
INSERT INTO scores (name, password_hash, score, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
	password_hash = excluded.password_hash,
	score         = excluded.score,
	updated_at    = excluded.updated_at`

const selectTop = `
SELECT name, password_hash, score, updated_at FROM scores
ORDER BY score DESC, updated_at ASC, name ASC
LIMIT ?`
