package locallog

const (
	tableSchema = `
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`

	triggerPreventDelete = `
		CREATE TRIGGER IF NOT EXISTS prevent_kv_delete
		BEFORE DELETE ON kv_store
		FOR EACH ROW
		BEGIN
			SELECT RAISE(FAIL, 'Deletes not allowed on kv_store');
		END`
)

func schemaStatements() []string {
	return []string{
		tableSchema,
		triggerPreventDelete,
	}
}
