// Package nft builds the off-chain metadata attached to a music token.
package nft

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// TokenURIPrefix is the data URI prefix used for inline token metadata.
const TokenURIPrefix = "data:application/json;base64,"

// Track describes a piece of music to be minted. The content hashes are
// opaque IPFS identifiers.
type Track struct {
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Genre           string `json:"genre"`
	DurationSeconds uint64 `json:"duration"`
	AudioHash       string `json:"audioIPFSHash"`
	CoverHash       string `json:"coverIPFSHash"`
}

// Attribute is a marketplace trait entry.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the ERC-721 metadata document for a track.
type Metadata struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Image        string      `json:"image"`
	Attributes   []Attribute `json:"attributes"`
	AnimationURL string      `json:"animation_url"`
}

// ExampleTrack returns the sample track minted by mint-example.
func ExampleTrack() Track {
	return Track{
		Title:           "Monad Vibes",
		Artist:          "Crypto Composer",
		Genre:           "Electronic",
		DurationSeconds: 180,
		AudioHash:       "QmExampleAudioHash123",
		CoverHash:       "QmExampleCoverHash456",
	}
}

// Validate checks that the fields required by the contract are present.
func (t Track) Validate() error {
	var missing []string
	if strings.TrimSpace(t.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(t.Artist) == "" {
		missing = append(missing, "artist")
	}
	if strings.TrimSpace(t.AudioHash) == "" {
		missing = append(missing, "audio hash")
	}
	if len(missing) > 0 {
		return fmt.Errorf("track is missing %s", strings.Join(missing, ", "))
	}
	if t.DurationSeconds == 0 {
		return fmt.Errorf("track duration must be positive")
	}
	return nil
}

// BuildMetadata derives the metadata document for a track.
func BuildMetadata(t Track) Metadata {
	return Metadata{
		Name:        t.Title,
		Description: fmt.Sprintf("Music NFT by %s", t.Artist),
		Image:       ipfsURI(t.CoverHash),
		Attributes: []Attribute{
			{TraitType: "Artist", Value: t.Artist},
			{TraitType: "Genre", Value: t.Genre},
			{TraitType: "Duration", Value: fmt.Sprintf("%d seconds", t.DurationSeconds)},
		},
		AnimationURL: ipfsURI(t.AudioHash),
	}
}

// EncodeTokenURI serializes metadata into a base64 data URI.
func EncodeTokenURI(m Metadata) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return TokenURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeTokenURI parses a data URI produced by EncodeTokenURI.
func DecodeTokenURI(uri string) (*Metadata, error) {
	if !strings.HasPrefix(uri, TokenURIPrefix) {
		return nil, fmt.Errorf("unsupported token URI: expected %q prefix", TokenURIPrefix)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, TokenURIPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode token URI: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &m, nil
}

func ipfsURI(hash string) string {
	if hash == "" {
		return ""
	}
	return "ipfs://" + hash
}
