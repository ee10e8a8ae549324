package prayer

// Resistance is the drain counter threshold for a given prayer bonus.
//
// Postcondition: result >= 1.
func Resistance(prayerBonus int) int {
	return max(1, 2*prayerBonus+60)
}

// Drainer accumulates drain across ticks.
type Drainer struct {
	Counter int
}

// Drain adds rate to the counter and returns how many prayer points are lost.
// Each whole resistance in the counter costs one point and is removed from it.
//
// Precondition: resistance >= 1 and rate >= 0.
// Postcondition: 0 <= Counter < resistance.
func (d *Drainer) Drain(rate, resistance int) int {
	if resistance < 1 {
		panic("prayer: resistance must be >= 1")
	}
	d.Counter += rate
	lost := 0
	for d.Counter >= resistance {
		d.Counter -= resistance
		lost++
	}
	return lost
}

// Reset empties the counter.
func (d *Drainer) Reset() {
	d.Counter = 0
}
