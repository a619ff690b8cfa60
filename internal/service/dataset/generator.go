package dataset

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
	"github.com/jwalitptl/clinical-dashboard/pkg/errors"
)

// Sampling distributions. Weights line up with the canonical orderings in
// the model package.
var (
	deliveryWeights     = []float64{0.4, 0.6}
	complicationWeights = []float64{0.70, 0.10, 0.10, 0.05, 0.05}
	sexWeights          = []float64{0.95, 0.05}
)

const (
	stayMean   = 3.0
	stayStdDev = 2.0
)

// Params are the generation inputs; equal Params produce equal tables.
type Params struct {
	Seed  int64
	Count int
	Start time.Time
	End   time.Time
}

// DefaultParams returns 1000 records over 2023-2024 with seed 42.
func DefaultParams() Params {
	return Params{
		Seed:  42,
		Count: 1000,
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Normalize truncates both range bounds to calendar days.
func (p Params) Normalize() Params {
	p.Start = model.CalendarDay(p.Start)
	p.End = model.CalendarDay(p.End)
	return p
}

// Validate returns an InvalidParameter error for a non-positive count or an
// empty date range.
func (p Params) Validate() error {
	if p.Count <= 0 {
		return errors.InvalidParameter("record count must be positive, got %d", p.Count)
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return errors.InvalidParameter("date range requires both start and end")
	}
	n := p.Normalize()
	if n.End.Before(n.Start) {
		return errors.InvalidParameter("empty date range: %s is after %s",
			n.Start.Format(model.DateLayout), n.End.Format(model.DateLayout))
	}
	return nil
}

// Key identifies the generated table in caches.
func (p Params) Key() string {
	n := p.Normalize()
	return fmt.Sprintf("%d:%d:%s:%s", n.Seed, n.Count,
		n.Start.Format(model.DateLayout), n.End.Format(model.DateLayout))
}

// Days is the number of calendar days in the inclusive range.
func (p Params) Days() int {
	n := p.Normalize()
	return int(n.End.Sub(n.Start).Hours()/24) + 1
}

// Generate draws p.Count independent admission records.
//
// The source is a PCG generator seeded with (Seed, Seed). Each record draws,
// in order: admission day, service, physician, delivery type, complication,
// length of stay and sex. The output is stable for a given Go release of
// math/rand/v2.
func Generate(p Params) ([]model.AdmissionRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.Normalize()

	r := rand.New(rand.NewPCG(uint64(p.Seed), uint64(p.Seed)))
	days := p.Days()

	services := model.Services()
	physicians := model.Physicians()
	deliveries := model.DeliveryTypes()
	complications := model.Complications()
	sexes := model.Sexes()

	records := make([]model.AdmissionRecord, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		admitted := p.Start.AddDate(0, 0, r.IntN(days))
		service := services[r.IntN(len(services))]
		physician := physicians[r.IntN(len(physicians))]
		delivery := deliveries[pick(r, deliveryWeights)]
		complication := complications[pick(r, complicationWeights)]
		stay := lengthOfStay(r)
		sex := sexes[pick(r, sexWeights)]

		records = append(records, model.NewAdmissionRecord(
			PatientID(i), admitted, service, physician, delivery, complication, stay, sex,
		))
	}

	return records, nil
}

// PatientID formats the generation index as P0000.
func PatientID(i int) string {
	return fmt.Sprintf("P%04d", i)
}

// lengthOfStay truncates a Normal(3, 2) draw toward zero and floors it at one day.
func lengthOfStay(r *rand.Rand) int {
	return max(1, int(stayMean+stayStdDev*r.NormFloat64()))
}

// pick returns an index drawn from the discrete distribution weights.
func pick(r *rand.Rand, weights []float64) int {
	u := r.Float64()
	var acc float64
	for i, w := range weights {
		acc += w
		if u < acc {
			return i
		}
	}
	return len(weights) - 1
}
