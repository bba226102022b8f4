package models

// NoCategory is reported as the top category when the store is empty.
const NoCategory = "—"

// Stats summarizes the registration store for the dashboard.
type Stats struct {
	Total       int    `json:"total"`
	Today       int    `json:"today"`
	TopCategory string `json:"topBranch"`
}

// DeleteResult reports whether a delete removed a record.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// DeleteResponse is the HTTP response for a successful delete.
type DeleteResponse struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

// ExportHeader is the first row of every export.
var ExportHeader = []string{"ID", "Name", "Email", "Phone", "College", "Branch", "Year", "Reason", "Registered At"}
