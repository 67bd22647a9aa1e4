package gamemath

import "math"

// ProjectileState is the kinematic state of a projectile between ticks.
// Heading uses the tank's compass convention: 0 points toward negative Y
// (screen up), 90 toward positive X.
type ProjectileState struct {
	X, Y    float64
	Heading float64
	Bounced bool
}

// HeadingToAngle converts a compass heading to the motion angle in degrees,
// where the step is (cos angle, sin angle).
func HeadingToAngle(heading float64) float64 {
	return heading - 90
}

// HeadingVector returns the unit step for a compass heading.
func HeadingVector(heading float64) (dx, dy float64) {
	rad := HeadingToAngle(heading) * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

// StepProjectile advances s by speed inside the [0, maxX] x [0, maxY] world and
// reports whether the projectile retires.
//
// An unbounced projectile reflects once when the candidate position touches or
// crosses a bound: an x bound rewrites the heading to 180-heading, a y bound to
// 360-heading. Both tests read the same candidate position and the rewrites
// compose x first, then y, so a corner hit yields 180+heading. The position is
// clamped before the retirement test, which is exact equality with a bound.
// Only a projectile that had already bounced before this step can retire; the
// reflecting step itself never does.
func StepProjectile(s ProjectileState, speed, maxX, maxY float64) (ProjectileState, bool) {
	wasBounced := s.Bounced
	dx, dy := HeadingVector(s.Heading)
	newX := s.X + dx*speed
	newY := s.Y + dy*speed

	if !s.Bounced {
		heading := s.Heading
		if newX <= 0 || newX >= maxX {
			heading = 180 - heading
			s.Bounced = true
		}
		if newY <= 0 || newY >= maxY {
			heading = 360 - heading
			s.Bounced = true
		}
		if s.Bounced {
			s.Heading = NormalizeHeading(heading)
		}
	}

	s.X = Clamp(newX, 0, maxX)
	s.Y = Clamp(newY, 0, maxY)

	onBound := s.X == 0 || s.X == maxX || s.Y == 0 || s.Y == maxY
	return s, wasBounced && onBound
}
