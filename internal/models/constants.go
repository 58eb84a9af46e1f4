package models

// Categories
const (
	CategoryUncategorized = "Uncategorized"
)

// Transaction states reported by Revolut exports
const (
	StateCompleted = "COMPLETED"
	StatePending   = "PENDING"
	StateReverted  = "REVERTED"
	StateDeclined  = "DECLINED"
)

// Date layouts
const (
	// DateTimeLayout is the layout of the Started/Completed Date columns.
	DateTimeLayout = "2006-01-02 15:04:05"
	// DayLayout is used for date filters and report output.
	DayLayout = "2006-01-02"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
)
