package temperature

import (
	"context"
	"fmt"

	"github.com/luluche1/rticonnextdds-getting-started/internal/application"
	"github.com/luluche1/rticonnextdds-getting-started/internal/dds"
)

// RunPublisher streams readings for the configured sensor. A failed write is
// reported and the stream goes on.
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
	writer, err := dds.CreateDataWriter[Temperature](publisher, topic)
	if err != nil {
		return env.Abort(participant, err)
	}

	sensorID := env.Args.SensorID
	if sensorID == "" {
		sensorID = application.DefaultSensorID
	}
	err = application.WriteLoop(env, func(count uint32) error {
		sample := Temperature{SensorID: sensorID, Degrees: reading()}
		_, _ = fmt.Fprintf(env.Out, "Writing ChocolateTemperature, count %d\n", count)
		if err := writer.Write(sample); err != nil {
			_, _ = fmt.Fprintf(env.Err, "write error %s\n", dds.CodeOf(err))
			env.Logger.Warn("write failed", "topic", TopicName, "count", count, "error", err)
		}
		return nil
	})
	if err != nil {
		return env.Abort(participant, err)
	}
	return env.Teardown(participant, "shutting down")
}
