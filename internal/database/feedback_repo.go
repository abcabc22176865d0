package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faultline/faultline/internal/model"
)

// FeedbackRepository handles feedback persistence
type FeedbackRepository struct {
	db *MongoDB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *MongoDB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts one piece of feedback
func (r *FeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if feedback.ID.IsZero() {
		feedback.ID = primitive.NewObjectID()
	}

	if _, err := r.db.GetCollection(CollectionFeedback).InsertOne(ctxTimeout, feedback); err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// ListByJob retrieves all feedback recorded against a job, newest first
func (r *FeedbackRepository) ListByJob(ctx context.Context, jobID string) ([]model.Feedback, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.GetCollection(CollectionFeedback).Find(ctxTimeout, bson.M{"job_id": jobID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var feedback []model.Feedback
	if err := cursor.All(ctxTimeout, &feedback); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}
	return feedback, nil
}
