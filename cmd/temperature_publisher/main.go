package main

import (
	"os"

	"github.com/luluche1/rticonnextdds-getting-started/internal/application"
	"github.com/luluche1/rticonnextdds-getting-started/internal/temperature"
)

func main() {
	os.Exit(application.Main(application.MainConfig{
		Parser: application.ParserOptions{
			Description:  "Example application: chocolate temperature sensor publisher.",
			Role:         application.RolePublisher,
			WithSensorID: true,
		},
		Name: "temperature_publisher",
		Run:  temperature.RunPublisher,
		Args: os.Args[1:],
	}))
}
