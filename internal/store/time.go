package store

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control minted identifiers and
// submission timestamps.
var timeNow = time.Now
