package models

import "time"

// Repository er et repo med tilhørende issues slik de ble hentet i én kjøring.
type Repository struct {
	Owner  string  `json:"owner"`
	Name   string  `json:"name"`
	Issues []Issue `json:"issues"`
}

func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Issue er normalisert fra GraphQL-svaret. ID er GitHub sin node-ID og brukes
// som naturlig nøkkel i alle sinks.
type Issue struct {
	ID        string     `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Closed    bool       `json:"closed"`
	CreatedAt time.Time  `json:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt"`
	// Maks én assignee, spørringen ber bare om first: 1.
	Assignees []string `json:"assignees"`
}

func (i Issue) HasAssignee() bool {
	return len(i.Assignees) > 0
}
