package models

import "time"

// Task is a to-do item. OwnerID is fixed at creation.
type Task struct {
	ID          string    `json:"_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskQuery narrows and orders a task listing. Zero values mean "no
// constraint": nil Completed lists every task, empty SortBy keeps insertion
// order, Limit 0 returns all rows.
type TaskQuery struct {
	Completed *bool
	SortBy    string
	Desc      bool
	Limit     int
	Offset    int
}
