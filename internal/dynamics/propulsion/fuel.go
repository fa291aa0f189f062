package propulsion

import (
	"math"

	"aerocore/internal/geo"
)

// FuelTank is a capacity-bounded reservoir with bounded fill/drain
// rates, one node in an arbitrary tank/transfer graph.
type FuelTank struct {
	NameStr         string
	CapacityKg      float64
	CurrentKg       float64
	MaxFillRateKgS  float64
	MaxDrainRateKgS float64

	// PositionBody locates this tank's CG in the body frame, letting the
	// vehicle layer fold its mass into MassProperties without a separate
	// registry keyed by tank name.
	PositionBody geo.Vector3

	// Intact reports whether this tank's fuel-flow path to the engines
	// (or to a transfer partner) is currently unbroken; false models
	// battle damage or a severed line. Transfers whose endpoints no
	// longer have an intact fuel-flow path are dropped.
	Intact bool
}

// Deliverable returns how much fuel this tank can supply over dt,
// bounded by its drain rate and remaining contents.
func (t *FuelTank) Deliverable(dtSec float64) float64 {
	if !t.Intact {
		return 0
	}
	return math.Min(t.MaxDrainRateKgS*dtSec, t.CurrentKg)
}

// Transfer is a configured fuel path from one or more source tanks to a
// target tank.
type Transfer struct {
	SourceTanks []*FuelTank
	TargetTank  *FuelTank
}

func (tr *Transfer) intact() bool {
	if tr.TargetTank == nil || !tr.TargetTank.Intact {
		return false
	}
	for _, s := range tr.SourceTanks {
		if s.Intact {
			return true
		}
	}
	return false
}

// UpdateTransfers runs the six-step fuel-transfer algorithm over every
// configured transfer for one simulation step of length dtSec. Step 2
// groups transfers by target tank before step 3 bounds each by the
// target's remaining headroom, so two transfers sharing one target
// split that tank's per-step fill-rate allowance instead of each
// independently claiming the full amount.
func UpdateTransfers(transfers []*Transfer, dtSec float64) {
	headroom := make(map[*FuelTank]float64)

	for _, tr := range transfers {
		// Step 1: drop transfers with no intact path.
		if !tr.intact() {
			continue
		}

		// Step 2/3: look up (or seed) this target's remaining headroom
		// for the step, shared across every transfer feeding it.
		remaining, seen := headroom[tr.TargetTank]
		if !seen {
			remaining = math.Min(tr.TargetTank.MaxFillRateKgS*dtSec, tr.TargetTank.CapacityKg-tr.TargetTank.CurrentKg)
		}
		if remaining <= 0 {
			headroom[tr.TargetTank] = remaining
			continue
		}

		// Step 4: ask each intact source what it can deliver.
		deliverable := make([]float64, len(tr.SourceTanks))
		total := 0.0
		for i, s := range tr.SourceTanks {
			deliverable[i] = s.Deliverable(dtSec)
			total += deliverable[i]
		}
		if total <= 0 {
			headroom[tr.TargetTank] = remaining
			continue
		}

		// Step 5: scale uniformly if sources offer more than the
		// target's remaining headroom can accept.
		scale := 1.0
		if total > remaining {
			scale = remaining / total
		}

		// Step 6: apply debits and credit atomically.
		credited := 0.0
		for i, s := range tr.SourceTanks {
			amount := deliverable[i] * scale
			s.CurrentKg -= amount
			credited += amount
		}
		tr.TargetTank.CurrentKg += credited
		headroom[tr.TargetTank] = remaining - credited
	}
}
