// Package fields turns sanitized contract text into a Record.
package fields

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/lease-extractor/constants"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/vehicle"
)

// VehicleNameFallback is asked for the vehicle name when the local scan finds
// none. Implementations talk to a remote model; the reply is trusted as-is.
type VehicleNameFallback interface {
	VehicleName(ctx context.Context, text string) (string, error)
}

// Where vehicle_name came from.
const (
	SourceLocator  = "locator"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// DefaultPrefixChars bounds the text handed to the fallback.
const DefaultPrefixChars = 1500

// Outcome is a record plus how vehicle_name was resolved.
type Outcome struct {
	Record        Record
	VehicleSource string
	FallbackErr   error
}

type Extractor struct {
	locator     *vehicle.Locator
	fallback    VehicleNameFallback
	prefixChars int
	logger      *slog.Logger
}

// NewExtractor wires the locator and an optional fallback (nil disables it).
func NewExtractor(locator *vehicle.Locator, fallback VehicleNameFallback, prefixChars int, logger *slog.Logger) *Extractor {
	if locator == nil {
		locator = vehicle.NewLocator()
	}
	if prefixChars <= 0 {
		prefixChars = DefaultPrefixChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{locator: locator, fallback: fallback, prefixChars: prefixChars, logger: logger}
}

// Extract always returns a complete record.
func (e *Extractor) Extract(ctx context.Context, text string) Record {
	return e.ExtractDetailed(ctx, text).Record
}

// ExtractDetailed is Extract with the vehicle-name provenance attached.
func (e *Extractor) ExtractDetailed(ctx context.Context, text string) Outcome {
	lower := strings.ToLower(text)
	rec := NewRecord()

	out := Outcome{VehicleSource: SourceLocator}
	rec.VehicleName = e.locator.Locate(text)
	if rec.VehicleName == constants.NotAvailable {
		rec.VehicleName, out.VehicleSource, out.FallbackErr = e.vehicleNameFallback(ctx, text)
	}

	applyPatternRules(&rec, lower)
	rec.ExcessMileageClause = excessMileage(lower)
	rec.MaintenanceIncluded = maintenance(lower)

	out.Record = rec
	return out
}

func (e *Extractor) vehicleNameFallback(ctx context.Context, text string) (string, string, error) {
	if e.fallback == nil {
		return constants.NotAvailable, SourceNone, nil
	}
	log := common.LoggerFromContext(ctx, e.logger)
	if log.Enabled(ctx, slog.LevelDebug) {
		for _, d := range e.locator.Explain(text) {
			log.Debug("fields.vehicle_name.skipped", "line", d.Line, "rule", d.SkippedBy)
		}
	}

	start := time.Now()
	name, err := e.fallback.VehicleName(ctx, Prefix(text, e.prefixChars))
	if err != nil {
		log.Warn("fields.vehicle_name.fallback_failed",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return constants.NotAvailable, SourceNone, err
	}
	name = strings.TrimSpace(name)
	if name == "" || name == constants.NotAvailable {
		log.Info("fields.vehicle_name.fallback_empty", "elapsed_ms", time.Since(start).Milliseconds())
		return constants.NotAvailable, SourceNone, nil
	}
	log.Info("fields.vehicle_name.fallback_ok",
		"vehicle_name", name,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return name, SourceFallback, nil
}

// Prefix returns at most n runes of s.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
