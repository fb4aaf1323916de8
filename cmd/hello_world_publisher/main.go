package main

import (
	"os"

	"github.com/luluche1/rticonnextdds-getting-started/internal/application"
	"github.com/luluche1/rticonnextdds-getting-started/internal/helloworld"
)

func main() {
	os.Exit(application.Main(application.MainConfig{
		Parser: application.ParserOptions{
			Description:  "Example application: hello world publisher.",
			Role:         application.RolePublisher,
			WithSensorID: false,
		},
		Name: "hello_world_publisher",
		Run:  helloworld.RunPublisher,
		Args: os.Args[1:],
	}))
}
