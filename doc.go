// Package robolab is the map engine of a line-following exploration robot:
// it records the paths the robot drives and the mothership reveals, plans
// shortest routes over them and decides where to explore next.
//
// What is inside?
//
//	planet/     - coordinates, directions, weights and the bidirectional path Map
//	dijkstra/   - deterministic shortest routes over a planet.Map
//	engine/     - exploration bookkeeping: visited, unvisited, frontier choice
//	mothership/ - JSON protocol, MQTT transport and the request/answer Session
//	sim/        - ground-truth planets, a simulated robot and mothership
//	mission/    - the drive loop wiring robot, mothership and engine together
//	config/     - YAML configuration of the explorer command
//
// A planet is an orthogonal grid of vertices joined by lines:
//
//	(0,1)───(1,1)
//	  │       │
//	(0,0)   (1,0)
//
// Every line is stored twice, once under each endpoint, so leaving (0,0)
// NORTH and leaving (0,1) SOUTH describe the same path.
//
//	go run ./cmd/explorer -planet planets/sample.yaml
package robolab
