// Package webconfig serves the runtime configuration script consumed by the
// web front end, plus health and metrics endpoints.
package webconfig

import (
	"encoding/json"
	"fmt"
)

// Values are the settings exposed to the browser. Unset values are
// rendered as empty strings.
type Values struct {
	DIDToken        string `json:"DID_TOKEN"`
	PinataJWT       string `json:"PINATA_JWT"`
	ContractAddress string `json:"CONTRACT_ADDRESS"`
}

// Script renders values as a JavaScript assignment to window._env_.
// encoding/json escapes <, > and & so the output is safe inside a script tag.
func Script(v Values) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode web config: %w", err)
	}
	return []byte(fmt.Sprintf("window._env_ = %s;", payload)), nil
}
