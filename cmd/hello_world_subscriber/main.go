package main

import (
	"os"

	"github.com/luluche1/rticonnextdds-getting-started/internal/application"
	"github.com/luluche1/rticonnextdds-getting-started/internal/helloworld"
)

func main() {
	os.Exit(application.Main(application.MainConfig{
		Parser: application.ParserOptions{
			Description:  "Example application: hello world subscriber.",
			Role:         application.RoleSubscriber,
			WithSensorID: false,
		},
		Name: "hello_world_subscriber",
		Run:  helloworld.RunSubscriber,
		Args: os.Args[1:],
	}))
}
