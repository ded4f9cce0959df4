package models

// Period kinds accepted by the sync command
const (
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// Input sources
const (
	SourceWebRequest = "web_request"
	SourceFile       = "file"
)

// Output targets
const (
	OutputDB    = "db"
	OutputExcel = "excel"
	OutputAll   = "all"
)

// Fixed file names under the input directory
const (
	TraceFileName       = "app.revolut.com.har"
	StaticInputFileName = "rev.json"
)

// TimestampLayout is used whenever a canonical timestamp is rendered as text.
const TimestampLayout = "2006-01-02 15:04:05"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionExportFile = 0644
)
