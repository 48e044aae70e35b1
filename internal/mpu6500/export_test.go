package mpu6500

import "time"

func init() {
	// Register settle delays are meaningless against recorded or simulated
	// buses.
	sleep = func(time.Duration) {}
}
