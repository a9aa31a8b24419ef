// Package model contains the shared data model of nimbus-cli: the apps we
// drive, the places experiments come from, and the logger interface.
package model
