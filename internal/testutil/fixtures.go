package testutil

import (
	"encoding/base64"
	"testing"
)

// Fixture is a named document used across tests.
type Fixture struct {
	build       func(b *DocumentBuilder) *DocumentBuilder
	Name        string
	Description string
}

// Document builds the fixture.
func (f Fixture) Document(t testing.TB) *DocumentBuilder {
	t.Helper()
	return f.build(NewDocument(t))
}

// Predefined fixtures.
var (
	// FixtureBalanced has two tabs whose weights each sum to 100.
	FixtureBalanced = Fixture{
		Name:        "Balanced",
		Description: "Two complete tabs, no violations",
		build: func(b *DocumentBuilder) *DocumentBuilder {
			return b.
				Tab("Platform").
				Scored("CI pipeline", 60, 90, 50, 70).Dated("2024.01.02", "2024.06.30").
				Scored("On-call", 40, 50, 50, 50).Dated("2024.03.01", "").
				Tab("Support").
				Scored("Ticket triage", 100, 80, 100, 60).Dated("", "2024.12.31")
		},
	}

	// FixtureIncomplete breaks every validation rule once.
	FixtureIncomplete = Fixture{
		Name:        "Incomplete",
		Description: "Weight without score, score without weight, weights short of 100",
		build: func(b *DocumentBuilder) *DocumentBuilder {
			return b.
				Tab("Draft").
				Row("Unscored", 50, 0).
				Row("Unweighted", 0, 70)
		},
	}
)

// LegacyBlob returns a persisted file in the pre-2.0 single-table shape.
func LegacyBlob(rowsJSON string) string {
	return base64.StdEncoding.EncodeToString([]byte(`{"data":` + rowsJSON + `}`))
}
