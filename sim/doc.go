// Package sim provides a ground-truth planet and stand-ins for the robot
// and the mothership, so the explorer can run without hardware or a
// broker.
//
// A planet file is YAML:
//
//	name: Sample
//	start: {x: 0, y: 0, orientation: north}
//	target: {x: 3, y: 3, after: 4}      # optional; sent after 4 driven paths
//	paths:
//	  - {from: {x: 0, y: 0, dir: east}, to: {x: 1, y: 0, dir: west}, weight: 3}
//	  - {from: {x: 0, y: 0, dir: 0}, to: {x: 0, y: 1, dir: 180}, weight: -1}
//	  - {from: {x: 0, y: 1, dir: e}, to: {x: 1, y: 1, dir: w}, weight: 2, unveil_at: [{x: 0, y: 0}]}
//	overrides:                           # optional pathSelect answers, used once each
//	  - {x: 1, y: 1, dir: north}
//
// Directions are degrees or names. A weight of -1 marks a blocked path.
// Paths listing unveil_at are sent as pathUnveiled when the robot arrives
// at one of those vertices and the path is not known yet.
//
// Grid generates rectangular planets from a seed instead of a file.
package sim
