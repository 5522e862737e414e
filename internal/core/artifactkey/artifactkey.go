// Package artifactkey maps (asset id, artifact type, parameters) to the storage key of a
// derived artifact. Keys are computed from derivation inputs only, so the same inputs
// always land on the same object and workers can overwrite it idempotently.
//
// Out-of-range parameters are clamped, never rejected. The only error is an unknown type.
package artifactkey

import (
	"fmt"
	"math"
	"media-pipeline/internal/core/domain"
	"strings"
)

const (
	MinLongEdgePx = 64
	MaxLongEdgePx = 2160

	DefaultThumbnailLongEdgePx   = 640
	DefaultEditProxyLongEdgePx   = 540
	DefaultFreezeFrameLongEdgePx = 1080

	// EditProxyFps and EditProxyGop are fixed encoder settings shipped with proxy jobs
	EditProxyFps = 30
	EditProxyGop = 8

	MinEnvelopeIntervalSeconds     = 0.1
	MaxEnvelopeIntervalSeconds     = 1.0
	DefaultEnvelopeIntervalSeconds = 0.1

	MinTimelineIntervalSeconds     = 1
	MaxTimelineIntervalSeconds     = 5
	DefaultTimelineIntervalSeconds = 1

	// offsets past 24h are clamped
	maxOffsetSeconds = 24 * 60 * 60
)

// Derive normalizes params for t and returns the key the artifact lives at
func Derive(assetID int64, t domain.ArtifactType, params domain.ArtifactParams) (domain.Derivation, error) {
	switch t {
	case domain.ArtifactThumbnail:
		px := clampLongEdge(params.LongEdgePx, DefaultThumbnailLongEdgePx)
		return domain.Derivation{
			Type:   t,
			Params: domain.ArtifactParams{LongEdgePx: px},
			Key:    fmt.Sprintf("%s%d.jpg", ThumbnailPrefix(assetID), px),
		}, nil

	case domain.ArtifactEditProxy:
		px := clampLongEdge(params.LongEdgePx, DefaultEditProxyLongEdgePx)
		return domain.Derivation{
			Type:   t,
			Params: domain.ArtifactParams{LongEdgePx: px},
			Key:    fmt.Sprintf("%sedit_%d.mp4", ProxyPrefix(assetID), px),
		}, nil

	case domain.ArtifactAudioEnvelope:
		ms := envelopeIntervalMillis(params.IntervalSeconds)
		return domain.Derivation{
			Type:   t,
			Params: domain.ArtifactParams{IntervalSeconds: float64(ms) / 1000},
			Key:    fmt.Sprintf("%saudio/envelope_i%d.json", ProxyPrefix(assetID), ms),
		}, nil

	case domain.ArtifactFreezeFrame:
		ms := offsetMillis(params.AtSeconds)
		px := clampLongEdge(params.LongEdgePx, DefaultFreezeFrameLongEdgePx)
		return domain.Derivation{
			Type:   t,
			Params: domain.ArtifactParams{LongEdgePx: px, AtSeconds: float64(ms) / 1000},
			Key:    fmt.Sprintf("%st_%d_le%d.png", StillPrefix(assetID), ms, px),
		}, nil

	case domain.ArtifactTimeline:
		s := timelineIntervalSeconds(params.IntervalSeconds)
		return domain.Derivation{
			Type:   t,
			Params: domain.ArtifactParams{IntervalSeconds: float64(s)},
			Key:    fmt.Sprintf("%stimeline/i%d/manifest.json", ProxyPrefix(assetID), s),
		}, nil
	}

	return domain.Derivation{}, fmt.Errorf("%w: %q", domain.ErrUnknownArtifactType, t)
}

// ThumbnailPrefix is the namespace holding every thumbnail of an asset
func ThumbnailPrefix(assetID int64) string {
	return fmt.Sprintf("thumb/%d/", assetID)
}

// ProxyPrefix is the namespace holding proxies, envelopes and timelines of an asset
func ProxyPrefix(assetID int64) string {
	return fmt.Sprintf("proxy/%d/", assetID)
}

// StillPrefix is the namespace holding freeze-frame stills of an asset
func StillPrefix(assetID int64) string {
	return fmt.Sprintf("still/%d/", assetID)
}

// RenderedPrefix is the namespace of rendered exports in the output bucket
func RenderedPrefix(assetID int64) string {
	return fmt.Sprintf("renders/%d/", assetID)
}

// ArtifactPrefixes lists every derived namespace of an asset
func ArtifactPrefixes(assetID int64) []string {
	return []string{ThumbnailPrefix(assetID), ProxyPrefix(assetID), StillPrefix(assetID)}
}

// SourcePrefix returns the directory holding the source object when key follows the
// `<uploadPrefix><date>/<uuid>/<file>` layout. Otherwise it returns key with exact set:
// listing key as a prefix also matches siblings such as `clip.mp4.mov`, so callers must
// keep only the object named key.
func SourcePrefix(uploadPrefix, key string) (prefix string, exact bool) {
	if uploadPrefix == "" || !strings.HasPrefix(key, uploadPrefix) {
		return key, true
	}
	parts := strings.Split(strings.TrimPrefix(key, uploadPrefix), "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return key, true
	}
	return uploadPrefix + parts[0] + "/" + parts[1] + "/", false
}

func clampLongEdge(px, def int) int {
	if px == 0 {
		return def
	}
	if px < MinLongEdgePx {
		return MinLongEdgePx
	}
	if px > MaxLongEdgePx {
		return MaxLongEdgePx
	}
	return px
}

func offsetMillis(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	seconds = math.Min(seconds, maxOffsetSeconds)
	return int64(math.Round(seconds * 1000))
}

func envelopeIntervalMillis(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds == 0 {
		seconds = DefaultEnvelopeIntervalSeconds
	}
	seconds = math.Min(math.Max(seconds, MinEnvelopeIntervalSeconds), MaxEnvelopeIntervalSeconds)
	tenths := math.Round(seconds * 10)
	return int64(tenths) * 100
}

// timelineIntervalSeconds clamps before converting, huge floats overflow int64
func timelineIntervalSeconds(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds == 0 {
		return DefaultTimelineIntervalSeconds
	}
	seconds = math.Min(math.Max(seconds, MinTimelineIntervalSeconds), MaxTimelineIntervalSeconds)
	return int64(math.Round(seconds))
}
