package scorecard

import (
	"errors"
	"fmt"
	"math"
)

const BallsPerOver = 6

var ErrMalformedOvers = errors.New("malformed overs notation")

// Overs is a bowling spell length counted in legal balls.
type Overs struct {
	balls int
}

// ParseOvers reads cricket notation: 3.4 is three overs and four balls.
func ParseOvers(notation float64) (Overs, error) {
	if math.IsNaN(notation) || math.IsInf(notation, 0) || notation < 0 {
		return Overs{}, fmt.Errorf("%w: %v", ErrMalformedOvers, notation)
	}

	whole := math.Floor(notation)
	fraction := (notation - whole) * 10
	balls := math.Round(fraction)
	if math.Abs(fraction-balls) > 1e-6 || balls >= BallsPerOver {
		return Overs{}, fmt.Errorf("%w: %v", ErrMalformedOvers, notation)
	}

	return Overs{balls: int(whole)*BallsPerOver + int(balls)}, nil
}

func OversFromBalls(balls int) Overs {
	if balls < 0 {
		balls = 0
	}
	return Overs{balls: balls}
}

func (o Overs) Balls() int { return o.balls }

// Decimal returns true overs, e.g. 3.4 in notation is 3.666...
func (o Overs) Decimal() float64 {
	return float64(o.balls) / BallsPerOver
}

func (o Overs) String() string {
	return fmt.Sprintf("%d.%d", o.balls/BallsPerOver, o.balls%BallsPerOver)
}
