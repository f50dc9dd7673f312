// Package resilience provides a circuit breaker for external
// dependencies.
//
// The breaker has three states. Closed passes calls through and counts
// consecutive failures; Open fails fast with ErrOpen; Half-Open admits
// a limited number of probes after the cooldown, closing again on the
// first success.
//
//	Closed --[failures]-> Open --[cooldown]-> Half-Open --[success]-> Closed
package resilience
