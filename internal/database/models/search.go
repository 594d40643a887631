package models

type SearchResult struct {
	Notes    []Note    `json:"notes"`
	Patients []Patient `json:"patients"`
}
