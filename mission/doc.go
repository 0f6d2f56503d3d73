// Package mission runs the explorer's control loop: it moves the robot,
// talks to the mothership and keeps the map engine up to date until the
// target is reached or the reachable planet is explored.
//
// The robot, its odometry and the mothership are interfaces. Package sim
// implements all three for offline runs; mothership.Session implements the
// server side over MQTT.
package mission
