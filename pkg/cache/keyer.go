package cache

// Key prefixes, also used as the keyType reported to cache hooks.
const (
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(dataHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input besides the data that changes a scene.
type LayoutKeyOpts struct {
	Chart   string  `json:"chart"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Options any     `json:"options,omitempty"`
}

// ArtifactKeyOpts holds every input besides the scene that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Title  string  `json:"title,omitempty"`
}

// DefaultKeyer hashes options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, dataHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
