// Package activity defines the activity record logged by acvinq and the
// calendar-day value used to group records.
//
// A Record is created only by the store's Append operation. Records are
// never edited: "still doing the same thing" is a new Record carrying the
// same description with a later timestamp.
package activity
