// Package notification describes what is told to whom after a state change:
// fixed event texts, per-channel contact addresses and the record of each attempt.
package notification
