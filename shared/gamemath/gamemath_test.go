package gamemath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	maxX  = 17.0
	maxY  = 11.0
	speed = 0.3
)

func TestNormalizeHeading(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{359, 359},
		{360, 0},
		{366, 6},
		{-6, 354},
		{-360, 0},
		{-726, 354},
		{720.5, 0.5},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, NormalizeHeading(c.in), 1e-9, "heading %v", c.in)
	}
}

func TestNormalizeHeadingRunningSum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		stepwise := 0.0
		sum := 0.0
		for n := 0; n < 50; n++ {
			delta := float64(rng.Intn(13)-6) * 3
			stepwise = NormalizeHeading(stepwise + delta)
			sum += delta
		}
		got := NormalizeHeading(sum)
		require.GreaterOrEqual(t, got, 0.0)
		require.Less(t, got, 360.0)
		assert.InDelta(t, got, stepwise, 1e-9)
	}
}

func TestClampToWorld(t *testing.T) {
	x, y := ClampToWorld(-0.2, 11.3, maxX, maxY)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 11.0, y)

	x, y = ClampToWorld(5.5, 4.5, maxX, maxY)
	assert.Equal(t, 5.5, x)
	assert.Equal(t, 4.5, y)
}

func TestHeadingVector(t *testing.T) {
	dx, dy := HeadingVector(0)
	assert.InDelta(t, 0, dx, 1e-9)
	assert.InDelta(t, -1, dy, 1e-9)

	dx, dy = HeadingVector(90)
	assert.InDelta(t, 1, dx, 1e-9)
	assert.InDelta(t, 0, dy, 1e-9)
}

func TestStepProjectileMovesAlongHeading(t *testing.T) {
	s, retired := StepProjectile(ProjectileState{X: 5, Y: 5, Heading: 90}, speed, maxX, maxY)
	assert.False(t, retired)
	assert.False(t, s.Bounced)
	assert.InDelta(t, 5.3, s.X, 1e-9)
	assert.InDelta(t, 5.0, s.Y, 1e-9)
}

func TestStepProjectileReflectsHeading(t *testing.T) {
	cases := []struct {
		name    string
		start   ProjectileState
		heading float64
	}{
		{"x bound", ProjectileState{X: 16.9, Y: 5, Heading: 60}, 120},
		{"x bound heading left", ProjectileState{X: 0.1, Y: 5, Heading: 270}, 270},
		{"y bound", ProjectileState{X: 5, Y: 10.9, Heading: 180}, 180},
		{"y bound oblique", ProjectileState{X: 5, Y: 0.1, Heading: 30}, 330},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, retired := StepProjectile(c.start, speed, maxX, maxY)
			assert.False(t, retired)
			assert.True(t, s.Bounced)
			assert.InDelta(t, c.heading, s.Heading, 1e-9)
		})
	}
}

// A projectile heading for x=0 keeps its heading on the x rewrite, stays
// pinned to the wall by the clamp and retires on the next step.
func TestStepProjectileBounceThenRetire(t *testing.T) {
	s := ProjectileState{X: 0.5, Y: 5, Heading: 270}

	s, retired := StepProjectile(s, speed, maxX, maxY)
	require.False(t, retired)
	require.False(t, s.Bounced)
	assert.InDelta(t, 0.2, s.X, 1e-9)

	s, retired = StepProjectile(s, speed, maxX, maxY)
	require.False(t, retired, "first contact reflects instead of retiring")
	require.True(t, s.Bounced)
	assert.Equal(t, 0.0, s.X)
	assert.InDelta(t, 270, s.Heading, 1e-9)

	s, retired = StepProjectile(s, speed, maxX, maxY)
	assert.True(t, retired)
	assert.Equal(t, 0.0, s.X)
}

// Heading 180 travels toward y=11; the y rewrite maps it to itself.
func TestStepProjectileHeadingDownRetiresAtFloor(t *testing.T) {
	s := ProjectileState{X: 0.5, Y: 5, Heading: 180}

	var retired bool
	ticks := 0
	for !retired {
		s, retired = StepProjectile(s, speed, maxX, maxY)
		assert.InDelta(t, 0.5, s.X, 1e-9)
		ticks++
		require.Less(t, ticks, 100)
	}
	assert.True(t, s.Bounced)
	assert.InDelta(t, 180, s.Heading, 1e-9)
	assert.Equal(t, maxY, s.Y)
}

func TestStepProjectileCornerReversesBothAxes(t *testing.T) {
	// heading 315 travels up and left
	s, retired := StepProjectile(ProjectileState{X: 0.1, Y: 0.1, Heading: 315}, speed, maxX, maxY)
	require.False(t, retired)
	require.True(t, s.Bounced)
	dx, dy := HeadingVector(s.Heading)
	assert.Greater(t, dx, 0.0)
	assert.Greater(t, dy, 0.0)
	assert.InDelta(t, 135, s.Heading, 1e-9)
}

func TestStepProjectileNeverBouncesTwice(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		s := ProjectileState{
			X:       0.5 + rng.Float64()*16,
			Y:       0.5 + rng.Float64()*10,
			Heading: float64(rng.Intn(360)),
		}
		reflections := 0
		for tick := 0; tick < 1000; tick++ {
			was := s.Bounced
			before := s.Heading
			var retired bool
			s, retired = StepProjectile(s, speed, maxX, maxY)
			if !was && s.Bounced {
				reflections++
			}
			if was {
				require.Equal(t, before, s.Heading, "heading changes only on the first reflection")
			}
			require.GreaterOrEqual(t, s.X, 0.0)
			require.LessOrEqual(t, s.X, maxX)
			require.GreaterOrEqual(t, s.Y, 0.0)
			require.LessOrEqual(t, s.Y, maxY)
			if retired {
				break
			}
			require.Less(t, tick, 999, "projectile must retire")
		}
		assert.LessOrEqual(t, reflections, 1)
	}
}

func TestStepProjectileUnbouncedNeverRetiresOnContact(t *testing.T) {
	s := ProjectileState{X: 17, Y: 5, Heading: 0}
	s, retired := StepProjectile(s, speed, maxX, maxY)
	// candidate x == 17 counts as contact, so this reflects rather than retires
	assert.False(t, retired)
	assert.True(t, s.Bounced)
	assert.False(t, math.IsNaN(s.Heading))
}
