// Package config reads and writes YAML scenario files and holds the
// built-in presets.
//
// A scenario names a model and integrator, the time grid, model params,
// the initial state and any event conditions:
//
//	model: projectile
//	integrator: rk4
//	dt: 0.01
//	duration: 10
//	params:
//	  drag: 0.1
//	init_state: [0, 0, 14.14, 14.14]
//	events:
//	  - name: ground
//	    kind: component
//	    index: 1
//	    value: 0
//	    direction: falling
//	    terminal: true
package config
