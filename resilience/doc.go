// Package resilience provides admission control for the evaluation surface.
//
// RateLimiter is a token bucket: Rate tokens are added per second up to
// Burst, and every admitted evaluation spends one. The inspect server uses
// it to bound how often POST /eval may drive a map to its step limit:
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Name: "eval", Rate: 5, Burst: 10})
//	if ok, wait := rl.Reserve(); !ok {
//	    return errors.RateLimited(wait)
//	}
package resilience
