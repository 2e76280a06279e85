package helper

import "time"

// Now is the clock for session windows and date-range checks. Tests swap
// it to freeze time; production never touches it.
var Now = time.Now
