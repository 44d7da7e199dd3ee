package domain

// Person is one active member of a route roster: a worker, a rider, or a
// prospect. The roster is read-only from the attendance core's perspective;
// people are added, removed, and reclassified by the contact-management side
// of the application.
type Person struct {
	ID     string      `json:"id"`
	Route  string      `json:"route"`
	Name   string      `json:"name"`
	Type   PersonType  `json:"type"`
	Source RiderSource `json:"source,omitempty"` // set only for riders
}
