package leader

import "time"

// Config holds leader election configuration.
type Config struct {
	LockKey       string        // Redis key holding the leadership lock
	LockTTL       time.Duration // How long the lock lives without renewal
	RenewInterval time.Duration // How often the leader renews the lock
	RetryInterval time.Duration // How often followers retry acquisition
}
