package logging

// Standardized field names for structured logging.
// Keeping these in one place makes log output consistent across packages.
const (
	FieldFile        = "file_path"
	FieldSheet       = "sheet"
	FieldHeaderRow   = "header_row"
	FieldProduct     = "product"
	FieldHolder      = "holder"
	FieldAmount      = "amount"
	FieldShare       = "share"
	FieldRow         = "row"
	FieldCount       = "count"
	FieldOutputFile  = "output_file"
	FieldPlaceholder = "placeholder"
	FieldReason      = "reason"
)
