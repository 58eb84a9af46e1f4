package logging

// Standardized field names for structured logging.
const (
	FieldFile      = "file_path"
	FieldParser    = "parser"
	FieldImportID  = "import_id"
	FieldRow       = "row"
	FieldCategory  = "category"
	FieldKeyword   = "keyword"
	FieldCurrency  = "currency"
	FieldBase      = "base_currency"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldCount     = "count"
	FieldFormat    = "format"
	FieldCacheHit  = "cache_hit"
)
