package uid

import (
	"encoding/hex"

	"lukechampine.com/frand"
)

// GenerateGameID returns 32 random hex characters.
func GenerateGameID() string {
	return hex.EncodeToString(frand.Bytes(16))
}
