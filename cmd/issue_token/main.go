// Command issue_token prints a bearer token for a user id, for local testing
// against the API.
package main

import (
	"flag"
	"fmt"
	"os"

	"task_tracker/internal/logger"
	"task_tracker/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	userID := flag.Int64("user", 1, "user id to embed in the token")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	if *userID <= 0 {
		logger.Fatal("user id must be positive", "user", *userID)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(*userID)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}
