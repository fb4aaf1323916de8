package helloworld

import (
	"context"

	"github.com/luluche1/rticonnextdds-getting-started/internal/application"
	"github.com/luluche1/rticonnextdds-getting-started/internal/dds"
)

// RunSubscriber prints every HelloMessage it takes until the sample count is
// reached or shutdown is requested.
func RunSubscriber(ctx context.Context, env *application.Env) error {
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
	subscriber, err := participant.CreateSubscriber()
	if err != nil {
		return env.Abort(participant, err)
	}
	reader, err := dds.CreateDataReader[HelloMessage](subscriber, topic)
	if err != nil {
		return env.Abort(participant, err)
	}

	err = application.ReadLoop(ctx, env, reader, func(m HelloMessage) {
		PrintData(env.Out, m)
	})
	if err != nil {
		return env.Abort(participant, err)
	}
	return env.Teardown(participant, "shutting down")
}
