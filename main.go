package main

import (
	"os"

	"github.com/GoRealm-Admin/GoRealm-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
