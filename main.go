package main

import (
	"os"

	"github.com/labstack/echo/v4"

	"review_pal/handler"
	"review_pal/helper"
	"review_pal/helper/ai/openai_impl"
	"review_pal/helper/github/github_impl"
	"review_pal/log"
	"review_pal/model"
)

func init() {
	os.Setenv("APP_NAME", "review-pal")
	logger := log.InitLogger(false)
	// Check if KUBERNETES_SERVICE_HOST is set
	if _, exists := os.LookupEnv("KUBERNETES_SERVICE_HOST"); !exists {
		// If not in Kubernetes, set LOG_LEVEL to DEBUG
		os.Setenv("LOG_LEVEL", "DEBUG")
	}
	logger.SetLevel(log.GetLogLevel("LOG_LEVEL"))
}

func main() {
	// With GITHUB_EVENT_PATH set the process runs as a one-shot GitHub
	// Action; otherwise it serves the configured repositories on a schedule.
	if eventPath := os.Getenv("GITHUB_EVENT_PATH"); eventPath != "" {
		runAction(eventPath)
		return
	}
	runServer()
}

func runAction(eventPath string) {
	token := os.Getenv("GITHUB_TOKEN")
	apiKey := os.Getenv("OPENAI_API_KEY")
	modelName := os.Getenv("OPENAI_API_MODEL")
	if token == "" || apiKey == "" || modelName == "" {
		log.Fatal("GITHUB_TOKEN, OPENAI_API_KEY and OPENAI_API_MODEL are required")
	}

	reviewer := &handler.ReviewPRHandler{
		Github:          github_impl.New(token, nil),
		AI:              openai_impl.New(apiKey, modelName, nil),
		Mode:            model.ParseReviewMode(os.Getenv("REVIEW_MODE")),
		PostEmptyReport: os.Getenv("POST_EMPTY_REPORT") == "true",
	}

	if err := reviewer.RunFromEvent(eventPath); err != nil {
		log.Errorf("Review run failed: %v", err)
		os.Exit(1)
	}
}

func runServer() {
	var cfg model.Task
	helper.LoadConfigFile(&cfg)
	if len(cfg.AutoReviewPRs) == 0 {
		log.Fatal("No repositories configured in config_file/review-config.yaml")
	}

	handlers := make(map[string]*handler.ReviewPRHandler)
	for _, review := range cfg.AutoReviewPRs {
		handlers[review.Owner+"/"+review.Repo] = &handler.ReviewPRHandler{
			Github:          github_impl.New(review.GithubToken, nil),
			AI:              openai_impl.NewWithBaseURL(review.OpenAIKey, review.OpenAIModel, review.SelfAPIBaseURL, nil),
			Mode:            model.ParseReviewMode(review.ReviewMode),
			PostEmptyReport: review.PostEmptyReport,
			BotUsername:     review.BotUsername,
		}
	}

	s, err := handler.SetupReviewJobs(cfg, handlers)
	if err != nil {
		log.Fatal(err)
	}
	s.Start()

	e := echo.New()
	e.Logger.SetLevel(log.GetGommonLogLevel("LOG_LEVEL"))
	handler.RegisterRoutes(e, handlers)
	e.Logger.Fatal(e.Start(":1994"))
}
