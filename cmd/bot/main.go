package main

import (
	"os"

	"chat-relay/bot/internal/app"
)

// @title           Chat Relay Admin API
// @version         1.0
// @description     Read-only inspection endpoints for the Telegram chat relay bot.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
