package core

// Canonical values of FieldInfo.Null and FieldInfo.Key.
const (
	NullYes    = "YES"
	NullNo     = "NO"
	KeyPrimary = "PRI"
)

// FieldInfo is the engine-independent description of one table column.
// Every adapter normalizes its catalog rows into this shape.
type FieldInfo struct {
	Field   string `json:"Field"`
	Type    string `json:"Type"`
	Null    string `json:"Null"`
	Key     string `json:"Key"`
	Default bool   `json:"Default"`
}

// ColumnDef describes one column for CreateTable.
type ColumnDef struct {
	Name        string
	Type        string
	Size        string // rendered as TYPE(size), e.g. "50" or "10,2"
	NotNull     bool
	Auto        bool
	Primary     bool
	Index       bool
	UniqueIndex bool
	Extra       string
}

// ColumnDefs is an ordered list of column definitions.
type ColumnDefs []ColumnDef

// Names returns the column names in definition order.
func (d ColumnDefs) Names() []string {
	names := make([]string, len(d))
	for i, c := range d {
		names[i] = c.Name
	}
	return names
}

// IndexSpec describes a multi-column index.
// Composite indexes are not supported by CreateTable; passing one is an error.
type IndexSpec struct {
	Name    string
	Columns []string
	Unique  bool
}
