package database

// schemas maps database names to their DDL. Statements are idempotent
// (IF NOT EXISTS) so Migrate can run on every startup.
var schemas = map[string]string{
	"investors": `
		CREATE TABLE IF NOT EXISTS investors (
			investor_id  INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name    TEXT NOT NULL,
			email        TEXT NOT NULL UNIQUE,
			password     TEXT NOT NULL,
			phone_number TEXT UNIQUE
		);

		CREATE TABLE IF NOT EXISTS admin_users (
			staff_id  INTEGER PRIMARY KEY AUTOINCREMENT,
			email     TEXT NOT NULL UNIQUE,
			password  TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role      TEXT NOT NULL
		);
	`,

	"portfolios": `
		CREATE TABLE IF NOT EXISTS portfolios (
			portfolio_id          INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_name        TEXT,
			invested_amount       REAL,
			request_date          TEXT,
			equity_percentage     REAL,
			bond_percentage       REAL,
			derivative_percentage REAL,
			regulation_type       TEXT,
			quantity              INTEGER,
			status                TEXT NOT NULL DEFAULT 'Pending',
			investor_id           INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_portfolios_investor ON portfolios(investor_id);
	`,

	"compliance": `
		CREATE TABLE IF NOT EXISTS compliance_logs (
			log_id            INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id      INTEGER NOT NULL,
			regulation_type   TEXT,
			findings          TEXT,
			compliance_status TEXT,
			log_date          TEXT
		);

		-- One current report per portfolio; upserts key on this index.
		CREATE UNIQUE INDEX IF NOT EXISTS idx_compliance_logs_portfolio
			ON compliance_logs(portfolio_id);
	`,

	"risk": `
		CREATE TABLE IF NOT EXISTS risk_scores (
			risk_id               INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id          INTEGER NOT NULL UNIQUE,
			equity_percentage     REAL,
			bond_percentage       REAL,
			derivative_percentage REAL,
			calculated_score      INTEGER,
			risk_level            TEXT,
			calculation_date      TEXT
		);
	`,

	"alerts": `
		CREATE TABLE IF NOT EXISTS exposure_alerts (
			alert_id       INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id   INTEGER NOT NULL,
			investor_id    INTEGER NOT NULL,
			asset_type     TEXT,
			exposure_value REAL,
			limit_value    REAL,
			status         TEXT,
			created_at     TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_exposure_alerts_investor ON exposure_alerts(investor_id);
	`,

	"clientdata": `
		CREATE TABLE IF NOT EXISTS portfolio_lookup (
			key        TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS investor_lookup (
			key        TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		);
	`,
}
