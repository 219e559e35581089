package dynamics

import "math"

// Tuning constants. These are in meters-kilograms-seconds units and assume
// bodies in the 0.1 to 10 meter range; scale the simulation, not the
// constants.
const (
	// aabbExtension fattens broad-phase proxies so small movement doesn't
	// force a proxy update every step.
	aabbExtension = 0.1

	// maxTranslation caps how far a body may move in one step.
	maxTranslation = 2.0

	// maxRotation caps how far a body may rotate in one step.
	maxRotation = 0.5 * math.Pi

	// timeToSleep is how long a body must stay under the sleep tolerances
	// before it is put to sleep.
	timeToSleep = 0.5

	linearSleepToleranceSq  = 0.01 * 0.01
	angularSleepToleranceSq = (2.0 / 180.0 * math.Pi) * (2.0 / 180.0 * math.Pi)
)
