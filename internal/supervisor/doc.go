// Package supervisor runs one task as a separate OS process under a hard
// wall-clock timeout.
//
// RunBounded races the child's exit against a timer. Whichever fires first
// decides the Outcome; the loser is discarded. On timeout the child (and,
// with process-group isolation, everything it spawned) gets SIGTERM and a
// short stop grace to restore the terminal and exit. Whatever is left is
// killed and then reaped within a grace period, so repeated timeouts leave
// no zombies.
//
// Outcomes are values, never errors: a failed, timed-out or unlaunchable
// task is reported to the caller and the caller decides what to log.
package supervisor
