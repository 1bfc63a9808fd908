/*
Package resilience provides the circuit breaker that guards calls from the
judge client to a remote evaluation server.

	breaker := resilience.New("judge-server", resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	report, err := resilience.Do(breaker, func() (*evaluator.Report, error) {
		return send(ctx)
	})

States:

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                             |
	                                         [failure]
	                                             v
	                                           Open

Each state change starts a new generation; outcomes reported for an older
generation are ignored.
*/
package resilience
