package deal

// Modes whose vulnerability follows the deal number.
const (
	ModeChicago = "chicago"
	ModeBonus   = "bonus"
)

// IsAutoVulnerability reports whether mode derives vulnerability from the deal.
func IsAutoVulnerability(mode string) bool {
	return mode == ModeChicago || mode == ModeBonus
}

// Cycle tracks the current deal and its vulnerability.
type Cycle struct {
	DealNumber    int
	Vulnerability Vulnerability
}

// NewCycle starts at deal 1 with nobody vulnerable.
func NewCycle() Cycle {
	return Cycle{DealNumber: 1, Vulnerability: VulnNone}
}

// Dealer returns the dealer of the current deal.
func (c *Cycle) Dealer() Seat {
	return DealerFor(c.DealNumber)
}

// Advance moves to the next deal. With auto set the vulnerability is
// recomputed from the new deal number; otherwise it is left as it was.
func (c *Cycle) Advance(auto bool) {
	c.DealNumber++
	if auto {
		c.Recompute()
	}
}

// Recompute derives vulnerability from the current deal number.
func (c *Cycle) Recompute() {
	c.Vulnerability = VulnerabilityFor(c.DealNumber)
}
