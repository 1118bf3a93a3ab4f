package field

// StorageType is the type a layer declares for a field. Storage types lie:
// numeric data routinely arrives stored as text, so analysis works from the
// derived WorkingType instead.
type StorageType string

const (
	StorageNumeric  StorageType = "numeric"
	StorageString   StorageType = "string"
	StorageDate     StorageType = "date"
	StorageDateTime StorageType = "datetime"
	StorageBoolean  StorageType = "boolean"
	StorageUnknown  StorageType = "unknown"
)

// IsNumeric reports whether the declared storage is a numeric column.
func (t StorageType) IsNumeric() bool { return t == StorageNumeric }

// IsTemporal reports whether the declared storage is date or datetime.
func (t StorageType) IsTemporal() bool { return t == StorageDate || t == StorageDateTime }

// WorkingType is the analyzer-determined effective type of a field's values.
// It is recomputed on every analysis run and never stored.
type WorkingType string

const (
	WorkingNumeric  WorkingType = "numeric"
	WorkingText     WorkingType = "text"
	WorkingDate     WorkingType = "date"
	WorkingDateTime WorkingType = "datetime"
	WorkingBoolean  WorkingType = "boolean"
	WorkingUnknown  WorkingType = "unknown"
)

// Info describes one field of a layer as the source declares it.
type Info struct {
	Name    string      `json:"name"`
	Storage StorageType `json:"storage"`
}
