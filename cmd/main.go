package main

import (
	"github.com/retailworks/backoffice/internal/app"
	"github.com/retailworks/backoffice/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
