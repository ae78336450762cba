// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven
// ports (file sources, normalisers, remote clients and stores).
//
// Services are pure Go with no CGO dependencies.
package services
