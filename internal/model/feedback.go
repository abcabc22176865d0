package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a caller's judgement on a delivered report
type Feedback struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	JobID     string             `json:"job_id" bson:"job_id"`
	IsUseful  bool               `json:"is_useful" bson:"is_useful"`
	Comment   string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Validate validates feedback before persistence
func (f *Feedback) Validate() error {
	if f.JobID == "" {
		return errors.New("job_id is required")
	}
	return nil
}
