// Package core defines the shared language of the leapdb adapter system.
//
// This package contains:
//   - Connection configuration (AdapterConfig, TargetConfig)
//   - Cursor data shapes (FetchMode, Row, FieldDescriptor)
//   - Canonical schema shapes (FieldInfo, ColumnDef, IndexSpec)
//   - Dialect data (IdentifierConfig, PlaceholderStyle, StringEscapeStyle)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
