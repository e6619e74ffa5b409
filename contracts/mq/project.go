package mq

import "time"

// Routing keys for project lifecycle events on the "events" exchange.
const (
	RoutingKeyProjectAssigned  = "project.assigned"
	RoutingKeyProjectAdvanced  = "project.advanced"
	RoutingKeyProjectCompleted = "project.completed"
)

// ProjectAssignedPayload is published when a project is assigned to a client.
type ProjectAssignedPayload struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	ClientName  string    `json:"client_name"`
	AssignedAt  time.Time `json:"assigned_at"`
}

// ProjectAdvancedPayload is published on every successful stage advancement.
type ProjectAdvancedPayload struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	Completed   int       `json:"completed"`
	Total       int       `json:"total"`
	Stage       string    `json:"stage"` // name of the stage just completed
	AdvancedAt  time.Time `json:"advanced_at"`
}

// ProjectCompletedPayload is published when the final stage is completed.
type ProjectCompletedPayload struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	ClientName  string    `json:"client_name"`
	CompletedAt time.Time `json:"completed_at"`
}
