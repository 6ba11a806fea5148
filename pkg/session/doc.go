/*
Package session keeps live traces for clients that step a word remotely,
one request per step.

Each trace is guarded by its own lock, so concurrent requests for the same
trace are serialized while different traces step in parallel. Idle traces
expire after a TTL and the number of live traces is capped.
*/
package session
