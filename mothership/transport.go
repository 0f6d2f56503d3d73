package mothership

import (
	"context"
	"fmt"
)

// Message is one raw publication received on a subscribed topic.
type Message struct {
	Topic   string
	Payload []byte
}

// Transport moves raw messages between the explorer and the server.
// Messages must deliver every publication on subscribed topics, including
// the explorer's own, in arrival order.
type Transport interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string) error
	Messages() <-chan Message
	Close() error
}

// ExplorerTopic is the group channel used for ready, target, testPlanet and
// the final announcements.
func ExplorerTopic(group string) string {
	return "explorer/" + group
}

// PlanetTopic is the per-planet channel used for path, pathSelect and
// pathUnveiled.
func PlanetTopic(planetName, group string) string {
	return fmt.Sprintf("planet/%s/%s", planetName, group)
}
