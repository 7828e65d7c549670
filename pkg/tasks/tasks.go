// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// PostIndexingTask represents a request to index one project's generated posts.
type PostIndexingTask struct {
	ProjectID    uint   `json:"project_id"`
	BusinessName string `json:"business_name"`
	PostCount    int    `json:"post_count"`
}
