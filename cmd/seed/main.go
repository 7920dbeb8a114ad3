package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyforge/internal/config"
	"surveyforge/internal/model"
	"surveyforge/internal/repository"
	"surveyforge/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	// Owned by the configured host so it shows up after login
	hostID := service.HostIDFor(cfg.HostUsername)

	surveys := service.NewSurveyService(repository.NewSurveyRepo(client.Database(cfg.MongoDB)), nil)
	survey, err := surveys.Create(ctx, hostID, model.SurveyInput{
		Topic:       "Smartphone launch feedback",
		Title:       "Smartphone Launch Feedback",
		Description: "Understand user perception, satisfaction, and improvement areas for the new device.",
		Questions: []model.Question{
			{
				Text:     "On a scale from 1 to 5, how satisfied are you with this smartphone overall?",
				Kind:     model.KindScale,
				Options:  []string{"5"},
				Required: true,
			},
			{
				Text:     "Which model did you purchase?",
				Kind:     model.KindMultipleChoice,
				Options:  []string{"Standard", "Pro", "Pro Max"},
				Required: true,
			},
			{
				Text:    "Which features do you use daily?",
				Kind:    model.KindCheckbox,
				Options: []string{"Camera", "Battery saver", "Face unlock", "Wireless charging"},
			},
			{
				Text: "When did you buy it?",
				Kind: model.KindDate,
			},
			{
				Text: "What should we improve first?",
				Kind: model.KindParagraphText,
			},
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to seed survey: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded draft survey %s for host %s\n", survey.ID, hostID)
}
