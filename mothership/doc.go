// Package mothership implements the explorer's side of the mothership
// protocol: JSON envelopes, topic layout, an MQTT transport and a Session
// that turns the publish/subscribe traffic into request/response rounds.
//
// Topics:
//
//	explorer/<group>               ready, planet, target, testPlanet, targetReached, explorationCompleted, done
//	planet/<planetName>/<group>    path, pathSelect, pathUnveiled
//
// Every request publishes one client message and then collects server
// messages until nothing new arrived for the quiet period. The collected
// messages form a Round. The explorer is subscribed to the topics it
// publishes on, so its own messages come back and are skipped.
package mothership
