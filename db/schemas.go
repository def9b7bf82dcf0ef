package db

var schema = `
CREATE TABLE IF NOT EXISTS accounts (
	address VARCHAR(44) PRIMARY KEY,
	kind VARCHAR(32) NOT NULL,
	lamports NUMERIC(20, 0) NOT NULL CHECK (lamports >= 0),
	space INT NOT NULL,
	data JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS accounts_kind_idx ON accounts (kind);

CREATE TABLE IF NOT EXISTS read_model_event_summaries (
	event_address VARCHAR(44) PRIMARY KEY,
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	notification_id UUID PRIMARY KEY,
	published_at TIMESTAMP NOT NULL,
	notification_name VARCHAR(255) NOT NULL,
	notification_payload JSONB NOT NULL
);
`
