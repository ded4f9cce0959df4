package logging

// Standardized field names for structured logging.
const (
	FieldRunID       = "run_id"
	FieldLegID       = "leg_id"
	FieldTransaction = "transaction_id"
	FieldCategory    = "category"
	FieldPeriod      = "period"
	FieldSource      = "source"
	FieldCutoff      = "cutoff"
	FieldCount       = "count"
	FieldTotal       = "total"
	FieldFile        = "file_path"
	FieldURL         = "url"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldComponent   = "component"
)
