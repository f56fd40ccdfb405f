package business

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"launchpad/internal/models"
)

// LaunchParams is the set of launch parameters that determine an on-chain
// config account. Content-identical parameters must resolve to the same
// config so no redundant account is created.
type LaunchParams struct {
	GraduationThreshold float64      `json:"graduation_threshold"`
	FeeTier             int          `json:"fee_tier"`
	GraceMode           bool         `json:"grace_mode"`
	Vesting             models.JSONB `json:"vesting"`
}

// ConfigHash produces the deterministic digest used for config reuse.
// The struct marshals with a fixed field order and map keys marshal sorted,
// so equal parameters always hash equally regardless of input ordering.
func ConfigHash(params LaunchParams) string {
	if params.Vesting == nil {
		params.Vesting = models.JSONB{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		// Only unmarshalable vesting values can get here, and JSONB came
		// from parsed JSON.
		panic("launch params not marshalable: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
