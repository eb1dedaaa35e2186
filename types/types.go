// Package types defines the shared data structures for the concept compiler.
// It holds type definitions only: no logic, no methods.
package types

// TagID is an interned handle into a tag registry. IDs are 1-based;
// NoTag means "no handle".
type TagID int

// NoTag is the zero TagID.
const NoTag TagID = 0

// Tag is a single interned name owned by a registry.
type Tag struct {
	ID      TagID
	Name    string // canonical spelling, first occurrence wins
	Display string // human-readable override, defaults to Name
}

// TagRef is a parsed `Name` or `Name[Display]` token.
type TagRef struct {
	Name    string
	Display string // empty when no override was given
}

// Duration is an inclusive range of turns. Min may exceed Max when the
// source wrote an inverted range; it is stored as written.
type Duration struct {
	Min int
	Max int
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// White is the default concept color.
var White = Color{R: 255, G: 255, B: 255, A: 255}

// ConditionKind identifies a condition variant.
type ConditionKind string

const (
	RequireAge      ConditionKind = "require_age"
	RequireCategory ConditionKind = "require_category"
)

// Condition gates an action's availability. Exactly one of MinAge or
// Categories is meaningful, depending on Kind.
type Condition struct {
	Kind       ConditionKind
	MinAge     int     // RequireAge
	Categories []TagID // RequireCategory, never empty
}

// Action is one `action(...)` entry of a concept.
type Action struct {
	Tag              TagID
	Display          string // display override given at the call site
	Duration         Duration
	DangerMultiplier float64 // starts at 1.0, combined multiplicatively
	DeltaDanger      float64 // starts at 0.0, combined additively
	Conditions       []Condition
}

// Concept is one `*Name:` block.
type Concept struct {
	Name          string
	Sprite        string
	Color         Color
	Categories    []TagID
	Lethal        bool
	LethalTag     TagID
	LethalDisplay string
	Actions       []Action
	Line          int // 1-based line of the header
}

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a recoverable problem found while compiling a document.
type Diagnostic struct {
	File     string
	Line     int // 1-based; 0 when not tied to a line
	Severity Severity
	Message  string
}

// Collection is the compiled output of one document.
type Collection struct {
	Name        string
	Concepts    []Concept
	Tags        []Tag // indexed by TagID-1
	Diagnostics []Diagnostic
}

// Result is the output of a single browser command.
type Result struct {
	Output []string
}
