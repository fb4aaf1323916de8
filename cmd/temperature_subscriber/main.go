package main

import (
	"os"

	"github.com/luluche1/rticonnextdds-getting-started/internal/application"
	"github.com/luluche1/rticonnextdds-getting-started/internal/temperature"
)

func main() {
	os.Exit(application.Main(application.MainConfig{
		Parser: application.ParserOptions{
			Description:  "Example application: chocolate temperature monitor.",
			Role:         application.RoleSubscriber,
			WithSensorID: true,
		},
		Name: "temperature_subscriber",
		Run:  temperature.RunSubscriber,
		Args: os.Args[1:],
	}))
}
