package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS expenses (
    seq                  INTEGER PRIMARY KEY AUTOINCREMENT,
    id                   TEXT NOT NULL UNIQUE,
    description          TEXT NOT NULL,
    amount               REAL NOT NULL CHECK (amount > 0),
    category             TEXT NOT NULL,
    recorded_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
`
