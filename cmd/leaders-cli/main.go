package main

import (
	"leaders-scraper/cmd/leaders-cli/commands"
	"leaders-scraper/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
