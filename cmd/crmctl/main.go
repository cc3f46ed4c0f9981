package main

import (
	"os"

	"github.com/noah-isme/admissions-crm-api/cmd/crmctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
