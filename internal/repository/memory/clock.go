package memory

import "time"

// timeNow для created_at/updated_at, подменяется в тестах
var timeNow = time.Now
