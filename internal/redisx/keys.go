package redisx

import "time"

const (
	// Bearer token -> user_id: auth:token:{token}
	KeyAuthToken = "auth:token:%s"

	// Password reset token -> user_id: auth:pwreset:{token}
	KeyPasswordReset = "auth:pwreset:%s"

	// Cached product body: catalog:product:{product_id}
	KeyProduct = "catalog:product:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLAuthToken     = 30 * 24 * time.Hour
	TTLPasswordReset = time.Hour
	TTLProduct       = 5 * time.Minute
	TTLDedup         = 48 * time.Hour
)
