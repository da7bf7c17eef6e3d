package constants

// NotAvailable marks a field that could not be found. It is never the empty string.
const NotAvailable = "Not Available"

// Categorical field values.
const (
	Yes     = "Yes"
	No      = "No"
	Present = "Present"
)

// Record field names in their serialized order.
const (
	FieldVehicleName         = "vehicle_name"
	FieldMonthlyPayment      = "monthly_payment"
	FieldDownPayment         = "down_payment"
	FieldLeaseTermMonths     = "lease_term_months"
	FieldAnnualMileage       = "annual_mileage"
	FieldExcessMileageClause = "excess_mileage_clause"
	FieldMaintenanceIncluded = "maintenance_included"
	FieldTotalLeaseCost      = "total_lease_cost"
	FieldFuelType            = "fuel_type"
	FieldTransmission        = "transmission"
	FieldCO2Emissions        = "co2_emissions"
	FieldP11DValue           = "p11d_value"
	FieldNotInDocument       = "not_available_in_document"
)

// FieldOrder is the fixed key order of a serialized record.
var FieldOrder = []string{
	FieldVehicleName,
	FieldMonthlyPayment,
	FieldDownPayment,
	FieldLeaseTermMonths,
	FieldAnnualMileage,
	FieldExcessMileageClause,
	FieldMaintenanceIncluded,
	FieldTotalLeaseCost,
	FieldFuelType,
	FieldTransmission,
	FieldCO2Emissions,
	FieldP11DValue,
	FieldNotInDocument,
}

// fieldsNeverInDocument lists attributes this class of lease quote never carries.
var fieldsNeverInDocument = []string{
	"VIN number",
	"APR / Interest rate",
	"Residual value",
	"Purchase option / Buyout price",
	"Early termination penalties",
	"Late payment fees",
	"Warranty details",
	"Insurance coverage",
}

// FieldsNeverInDocument returns a fresh copy so callers cannot mutate the shared list.
func FieldsNeverInDocument() []string {
	out := make([]string, len(fieldsNeverInDocument))
	copy(out, fieldsNeverInDocument)
	return out
}
