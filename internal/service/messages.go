package service

// User-visible texts. The error notice is the only thing users ever see when
// something fails; details go to the log.
const (
	WelcomeText         = "Welcome, you can ask me questions now. \nFor example: `Who is john lennon?`"
	HistoryClearedText  = "Your history has been cleared"
	SwitchRejectedText  = "This command is only for private chat!"
	SwitchConfirmFormat = "Now you are using %s (%s)"
	GeneratingNotice    = "🤖Generating🤖"
	ImageReceivedNotice = "Image received"
	ErrorNotice         = "⚠️⚠️⚠️\nSomething went wrong !\nPlease try to change your prompt or contact the admin !"

	// imageCaptionLabel prefixes the user's caption in photo requests.
	imageCaptionLabel = "Image caption:\n"
)

// Commands understood by the bot.
const (
	CommandStart  = "start"
	CommandClear  = "clear"
	CommandSwitch = "switch"
)
