package models

import "time"

// Comment is a discussion entry attached to a request.
type Comment struct {
	CommentID int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Comment model.
func (c Comment) TableName() string {
	return "request_comments"
}
