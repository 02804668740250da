package skyscatter

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type PassKind uint8

const (
	PassTransmittance      PassKind = iota // transmittance to the top boundary
	PassDirectIrradiance                   // sun irradiance on the ground
	PassSingleScattering                   // order 1 rayleigh and mie
	PassIndirectIrradiance                 // sky irradiance from the previous order
	PassScatteringDensity                  // in-scattered light of one order
	PassMultipleScattering                 // delta radiance of one order
	PassAccumulate                         // fold an order into the totals
)

var passKindNames = [...]string{
	"transmittance",
	"direct-irradiance",
	"single-scattering",
	"indirect-irradiance",
	"scattering-density",
	"multiple-scattering",
	"accumulate",
}

func (k PassKind) String() string {
	if int(k) < len(passKindNames) {
		return passKindNames[k]
	}
	return fmt.Sprintf("PassKind(%d)", k)
}

// PassRecord describes one finished pass.
type PassRecord struct {
	Kind    PassKind
	Order   int // scattering order, 0 for order independent passes
	Texels  int
	Elapsed time.Duration
	Mean    Real // mean texel magnitude of the written table
}

func (r PassRecord) Name() string {
	if r.Order > 0 {
		return fmt.Sprintf("%s[%d]", r.Kind, r.Order)
	}
	return r.Kind.String()
}

// PassLog collects pass records in completion order. Safe for concurrent use.
type PassLog struct {
	mu      sync.Mutex
	records []PassRecord
}

func (l *PassLog) add(r PassRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of all records.
func (l *PassLog) Records() []PassRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]PassRecord(nil), l.records...)
}

// ByKind returns the records of one kind, ordered by scattering order.
func (l *PassLog) ByKind(k PassKind) []PassRecord {
	var out []PassRecord
	for _, r := range l.Records() {
		if r.Kind == k {
			out = append(out, r)
		}
	}
	return out
}

// Total is the summed elapsed time of all passes.
func (l *PassLog) Total() time.Duration {
	var d time.Duration
	for _, r := range l.Records() {
		d += r.Elapsed
	}
	return d
}

// Stats logs one line per pass.
func (l *PassLog) Stats() {
	for _, r := range l.Records() {
		Logger().Info("pass", "name", r.Name(), "texels", r.Texels, "elapsed", r.Elapsed, "mean", r.Mean)
	}
	Logger().Info("precompute done", "passes", len(l.Records()), "elapsed", l.Total())
}

// timed runs one pass and records it.
func (l *PassLog) timed(kind PassKind, order, texels int, pass func() Real) {
	start := time.Now()
	mean := pass()
	r := PassRecord{Kind: kind, Order: order, Texels: texels, Elapsed: time.Since(start), Mean: mean}
	l.add(r)
	DebugLog("Finished %s: %d texels in %v, mean %g", r.Name(), texels, r.Elapsed, mean)
}

func meanLen3(buf []mgl64.Vec3) Real {
	if len(buf) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range buf {
		sum += v.Len()
	}
	return sum / Real(len(buf))
}

func meanLen4(buf []mgl64.Vec4) Real {
	if len(buf) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range buf {
		sum += v.Len()
	}
	return sum / Real(len(buf))
}
