package helloworld

import (
	"context"
	"fmt"

	"github.com/luluche1/rticonnextdds-getting-started/internal/application"
	"github.com/luluche1/rticonnextdds-getting-started/internal/dds"
)

// RunPublisher writes "Hello world! <count>" until the sample count is
// reached or shutdown is requested.
func RunPublisher(ctx context.Context, env *application.Env) error {
	participant, err := env.Factory.CreateParticipant(ctx, env.Args.DomainID)
	if err != nil {
		return env.Abort(nil, err)
	}
	if err := participant.RegisterType(TypeName); err != nil {
		return env.Abort(participant, err)
	}
	topic, err := participant.CreateTopic(TopicName, TypeName)
	if err != nil {
		return env.Abort(participant, err)
	}
	publisher, err := participant.CreatePublisher()
	if err != nil {
		return env.Abort(participant, err)
	}
	writer, err := dds.CreateDataWriter[HelloMessage](publisher, topic)
	if err != nil {
		return env.Abort(participant, err)
	}

	err = application.WriteLoop(env, func(count uint32) error {
		_, _ = fmt.Fprintf(env.Out, "Writing HelloMessage, count %d\n", count)
		return writer.Write(HelloMessage{Msg: fmt.Sprintf("Hello world! %d", count)})
	})
	if err != nil {
		return env.Abort(participant, err)
	}
	return env.Teardown(participant, "shutting down")
}
