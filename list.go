package mcumgrclient

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// responseMarker prefixes the JSON document in mcumgr-client's list output.
const responseMarker = "response: "

// ImageHash is a firmware image digest. mcumgr-client prints it as a
// JSON array of byte values; it decodes to the raw bytes.
type ImageHash []byte

func (h *ImageHash) UnmarshalJSON(data []byte) error {
	var raw []int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b := make([]byte, len(raw))
	for i, v := range raw {
		if v < 0 || v > 255 {
			return fmt.Errorf("hash element %d out of byte range: %d", i, v)
		}
		b[i] = byte(v)
	}
	*h = b
	return nil
}

// MarshalJSON renders the hash as a hex string, which is how humans
// expect to see it when the decoded response is re-encoded.
func (h ImageHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

// String returns the hash in hexadecimal.
func (h ImageHash) String() string {
	return hex.EncodeToString(h)
}

// ImageState describes one image slot as reported by the device.
type ImageState struct {
	Image     int       `json:"image"`
	Slot      int       `json:"slot"`
	Version   string    `json:"version"`
	Hash      ImageHash `json:"hash"`
	Bootable  bool      `json:"bootable"`
	Pending   bool      `json:"pending"`
	Confirmed bool      `json:"confirmed"`
	Active    bool      `json:"active"`
	Permanent bool      `json:"permanent"`
}

// ListResponse is the decoded image list response.
type ListResponse struct {
	Images      []ImageState `json:"images"`
	SplitStatus int          `json:"splitStatus"`
	RC          int          `json:"rc"`
}

// parseListOutput extracts and decodes the JSON document following the
// "response: " marker, after removing terminal escape sequences.
func parseListOutput(stdout string) (*ListResponse, error) {
	clean := stripEscapes(stdout)
	i := strings.Index(clean, responseMarker)
	if i < 0 {
		return nil, ErrNoResponseMarker
	}

	var resp ListResponse
	if err := json.Unmarshal([]byte(clean[i+len(responseMarker):]), &resp); err != nil {
		return nil, fmt.Errorf("decoding list response: %w", err)
	}
	return &resp, nil
}
