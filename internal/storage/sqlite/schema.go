package sqlite

// Schema initialization is idempotent; New executes this on every open.
const schema = `
CREATE TABLE IF NOT EXISTS learnings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	repo TEXT NOT NULL,
	technology TEXT NOT NULL,
	concept TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_learnings_date ON learnings(date);
CREATE INDEX IF NOT EXISTS idx_learnings_repo ON learnings(repo);
`
