package domain

import "time"

// BOQItem is one committed line of the bill of quantities. Items are never
// mutated after creation.
type BOQItem struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"projectId"`
	Name           string    `json:"name"`
	Detail         string    `json:"detail"`
	Amount         float64   `json:"amount"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	CurrencySymbol string    `json:"currencySymbol"`
	CurrencyCode   string    `json:"currencyCode,omitempty"`
}

// Draft is what a calculator screen hands to the ledger on commit. The
// workspace fills in identity, project and currency.
type Draft struct {
	Name   string
	Detail string
	Amount float64
	Type   string
}

// Project is a named site estimate. Exactly one is active at a time.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultProject is the project active on first run.
var DefaultProject = Project{
	ID:       "default",
	Name:     "Main Site Estate",
	Location: "City Center",
}
