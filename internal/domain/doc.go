// Package domain holds the lunch-log entities and the pure rules around them:
// report periods, the reaction registry and feed/report value types.
package domain
