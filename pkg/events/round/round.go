// Package roundevents defines the round catalogue topics and payloads.
package roundevents

const (
	// RoundStructureRequestV1 asks for the structure of a round sub-type.
	RoundStructureRequestV1 = "round.structure.request.v1"
	// RoundStructureResponseV1 answers RoundStructureRequestV1, on the reply subject when one is set.
	RoundStructureResponseV1 = "round.structure.response.v1"

	RoundCatalogueImportRequestedV1 = "round.catalogue.import.requested.v1"
	RoundCatalogueImportedV1        = "round.catalogue.imported.v1"
	RoundCatalogueImportFailedV1    = "round.catalogue.import.failed.v1"
)

// RoundInfoV1 is round metadata on the wire.
type RoundInfoV1 struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	IsOutdoor   bool   `json:"is_outdoor"`
	IsMetric    bool   `json:"is_metric"`
}

// LegV1 is one distance of a round structure.
type LegV1 struct {
	DistanceIndex int    `json:"distance_index"`
	ArrowCount    int    `json:"arrow_count"`
	Distance      int    `json:"distance"`
	Unit          string `json:"unit"`
}

type RoundStructureRequestPayloadV1 struct {
	RoundID   int64 `json:"round_id"`
	SubTypeID int   `json:"sub_type_id,omitempty"`
}

// RoundStructureResponsePayloadV1 carries either the structure or an error message.
type RoundStructureResponsePayloadV1 struct {
	Round       *RoundInfoV1 `json:"round,omitempty"`
	SubTypeID   int          `json:"sub_type_id"`
	Legs        []LegV1      `json:"legs,omitempty"`
	TotalArrows int          `json:"total_arrows"`
	Error       string       `json:"error,omitempty"`
}

// RoundCatalogueImportRequestedPayloadV1 carries a catalogue document in "yaml" or "html" format.
type RoundCatalogueImportRequestedPayloadV1 struct {
	Format   string `json:"format"`
	Document string `json:"document"`
}

type RoundCatalogueImportedPayloadV1 struct {
	Format string `json:"format"`
	Count  int    `json:"count"`
}

type RoundCatalogueImportFailedPayloadV1 struct {
	Format string `json:"format"`
	Reason string `json:"reason"`
}
