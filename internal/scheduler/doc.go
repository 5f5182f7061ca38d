// Package scheduler owns the inquiry cadence.
//
// RunForever fires round 1 immediately, then one round per tick of a
// periodic ticker until its context is cancelled. Rounds are strictly
// serialized: the loop does not read the ticker while a round runs, and
// time.Ticker drops ticks for a slow receiver, so at most one tick is ever
// pending. With an interval shorter than a round the next round simply
// starts as soon as the previous one returns.
//
// The loop never branches on a round's outcome. Every outcome is logged
// and the loop goes back to waiting.
package scheduler
