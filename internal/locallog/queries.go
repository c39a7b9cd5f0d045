package locallog

const (
	querySelectValue = `
		SELECT value FROM kv_store WHERE key = ?`

	queryUpsertValue = `
		INSERT INTO kv_store (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`
)
