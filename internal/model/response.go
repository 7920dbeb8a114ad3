package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResponseRecord mirrors one submission that was written to the external store
type ResponseRecord struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ResponseID   string             `json:"responseId" bson:"response_id"`
	SurveyID     string             `json:"surveyId" bson:"survey_id"`
	DatabaseID   string             `json:"databaseId" bson:"database_id"`
	NotionPageID string             `json:"notionPageId,omitempty" bson:"notion_page_id,omitempty"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	Payload      ResponsePayload    `json:"payload" bson:"-"`
	PayloadJSON  string             `json:"-" bson:"payload_json"` // property names may contain '.' or '$'
	SubmittedAt  time.Time          `json:"submittedAt" bson:"submitted_at"`
}
