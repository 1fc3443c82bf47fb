package astro

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// tropicalYear is the length of the tropical year in days.
const tropicalYear = 365.2422

// CooperEquationOfTime returns the equation of time in minutes for a day of
// the year, using the harmonic fit
//
//	EoT = 9.87 sin 2B - 7.53 cos B - 1.5 sin B + 0.21 cos 2B,  B = 2π(n-81)/365.2422
//
// It is cheaper and coarser than SolarCoordinates and is what solar noon,
// and therefore every CTU window, is computed from.
func CooperEquationOfTime(dayOfYear int) float64 {
	b := unit.Angle(2 * math.Pi / tropicalYear * float64(dayOfYear-81))
	b2 := b.Mul(2)
	return 9.87*b2.Sin() - 7.53*b.Cos() - 1.5*b.Sin() + 0.21*b2.Cos()
}

// SolarNoon returns the UTC instant of solar noon at longitude lonDeg (east
// positive) on the UTC calendar day containing day. The time of day of day
// is ignored.
func SolarNoon(lonDeg float64, day time.Time) time.Time {
	midnight := UTCMidnight(day)
	eot := CooperEquationOfTime(midnight.YearDay())
	hours := 12 - (lonDeg/15 + eot/60)
	return midnight.Add(time.Duration(math.Round(hours * float64(time.Hour))))
}
